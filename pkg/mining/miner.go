package mining

import (
	"fmt"
	"slices"
	"time"

	"github.com/bastiangx/freqset/internal/logger"
	"github.com/bastiangx/freqset/pkg/itemset"
	"github.com/bastiangx/freqset/pkg/store"
	"github.com/bastiangx/freqset/pkg/support"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// LevelHandler receives every non-empty level as soon as it is complete.
// Returning an error aborts the run.
type LevelHandler func(Level) error

// Option customises a Miner.
type Option func(*Miner)

// WithLogger replaces the default "mining" logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Miner) { m.logger = l }
}

// WithEvaluator overrides the evaluator named in the config.
func WithEvaluator(e support.Evaluator) Option {
	return func(m *Miner) { m.eval = e }
}

// WithLevelHandler registers the consumer of completed levels.
func WithLevelHandler(h LevelHandler) Option {
	return func(m *Miner) { m.onLevel = h }
}

// Miner runs the level-wise search over one store.
type Miner struct {
	store   *store.Store
	cfg     Config
	eval    support.Evaluator
	logger  *log.Logger
	onLevel LevelHandler
}

// NewMiner validates cfg and binds it to st.
func NewMiner(st *store.Store, cfg Config, opts ...Option) (*Miner, error) {
	if st == nil {
		return nil, ErrNilStore
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Miner{store: st, cfg: cfg}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = logger.New("mining")
	}
	if m.eval == nil {
		eval, err := support.ByName(cfg.Evaluator, st)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		m.eval = eval
	}
	return m, nil
}

// Mine runs the search to its natural end, or to Config.MaxLevel.
func (m *Miner) Mine() (*Result, error) {
	start := time.Now()
	res := &Result{Total: m.store.Total()}

	level, stats := m.firstLevel()
	for level.Len() > 0 {
		res.Levels = append(res.Levels, level)
		res.Stats = append(res.Stats, stats)
		m.logger.Debugf("level %d: %d frequent of %d candidates (%d pruned)",
			stats.K, stats.Kept, stats.Generated, stats.Pruned)

		if m.onLevel != nil {
			if err := m.onLevel(level); err != nil {
				return nil, fmt.Errorf("mining: level %d handler: %w", level.K, err)
			}
		}
		if m.cfg.MaxLevel > 0 && level.K >= m.cfg.MaxLevel {
			break
		}
		var err error
		level, stats, err = m.nextLevel(level)
		if err != nil {
			return nil, fmt.Errorf("mining: level %d: %w", level.K, err)
		}
	}

	m.logger.Debug("mining done",
		"levels", len(res.Levels),
		"itemsets", res.Count(),
		"evaluator", m.eval.Name(),
		"took", time.Since(start))
	return res, nil
}

// firstLevel counts single items straight from the store.
func (m *Miner) firstLevel() (Level, LevelStats) {
	items := m.store.Items()
	stats := LevelStats{K: 1, Generated: len(items), Evaluated: len(items)}
	level := Level{K: 1}

	for _, item := range items {
		single := itemset.Itemset{item}
		value := support.Value{Count: m.store.Count(item), Total: m.store.Total()}
		if m.cfg.Threshold.Passes(value) {
			level.Itemsets = append(level.Itemsets, Frequent{Itemset: single, Support: value})
		}
	}
	stats.Kept = level.Len()
	return level, stats
}

// nextLevel performs one generate, prune, evaluate, filter transition.
func (m *Miner) nextLevel(prev Level) (Level, LevelStats, error) {
	sets := prev.Sets()
	candidates := Generate(sets)
	stats := LevelStats{K: prev.K + 1, Generated: len(candidates)}

	survivors := candidates
	if !m.cfg.NoPrune {
		survivors = make([]itemset.Itemset, 0, len(candidates))
		for _, c := range candidates {
			if ShouldPrune(c, sets) {
				stats.Pruned++
				continue
			}
			survivors = append(survivors, c)
		}
	}

	next := Level{K: prev.K + 1}
	values, err := m.evaluate(survivors)
	if err != nil {
		return next, stats, err
	}
	stats.Evaluated = len(survivors)

	for i, c := range survivors {
		if m.cfg.Threshold.Passes(values[i]) {
			next.Itemsets = append(next.Itemsets, Frequent{Itemset: c, Support: values[i]})
		}
	}
	sortFrequent(next.Itemsets)
	stats.Kept = next.Len()
	return next, stats, nil
}

// evaluate computes the support of every candidate, in input order.
func (m *Miner) evaluate(candidates []itemset.Itemset) ([]support.Value, error) {
	values := make([]support.Value, len(candidates))
	if m.cfg.Workers <= 1 || len(candidates) < 2 {
		for i, c := range candidates {
			v, err := m.support(c)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		return values, nil
	}

	var g errgroup.Group
	g.SetLimit(m.cfg.Workers)
	for i, c := range candidates {
		g.Go(func() error {
			v, err := m.support(c)
			values[i] = v
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return values, nil
}

// support turns a panicking evaluator into an error so that a parallel
// worker cannot take the process down.
func (m *Miner) support(c itemset.Itemset) (v support.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s support of %s: %v", ErrEvaluator, m.eval.Name(), c, r)
		}
	}()
	return m.eval.Support(c), nil
}

func sortFrequent(fs []Frequent) {
	slices.SortFunc(fs, func(a, b Frequent) int {
		return itemset.Compare(a.Itemset, b.Itemset)
	})
}

// Mine is a shortcut that builds a store from txs and mines it with the
// inclusive threshold minSupport and default settings.
func Mine(txs []store.Transaction, minSupport float64) (*Result, error) {
	cfg := DefaultConfig()
	cfg.Threshold.MinSupport = minSupport
	m, err := NewMiner(store.New(txs), cfg)
	if err != nil {
		return nil, err
	}
	return m.Mine()
}
