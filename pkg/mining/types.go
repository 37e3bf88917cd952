package mining

import (
	"fmt"

	"github.com/bastiangx/freqset/pkg/itemset"
	"github.com/bastiangx/freqset/pkg/support"
)

// Config is the immutable configuration of one mining run.
type Config struct {
	Threshold support.Threshold
	// Evaluator names the support strategy, see support.ByName.
	Evaluator string
	// Workers > 1 evaluates the candidates of a level in parallel.
	Workers int
	// MaxLevel stops the search after that itemset size; 0 means no limit.
	MaxLevel int
	// NoPrune skips the apriori subset test before support evaluation.
	NoPrune bool
}

// DefaultConfig mirrors the defaults of the config file.
func DefaultConfig() Config {
	return Config{
		Threshold: support.Threshold{MinSupport: 0.05, Policy: support.Inclusive},
		Evaluator: support.VerticalName,
		Workers:   1,
	}
}

// Validate rejects a configuration before any mining begins.
func (c Config) Validate() error {
	if err := c.Threshold.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Evaluator != "" && c.Evaluator != support.VerticalName && c.Evaluator != support.ScanName {
		return fmt.Errorf("%w: unknown evaluator %q", ErrInvalidConfig, c.Evaluator)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.MaxLevel < 0 {
		return fmt.Errorf("%w: max level must not be negative, got %d", ErrInvalidConfig, c.MaxLevel)
	}
	return nil
}

// Frequent is an itemset that passed the threshold, with its support.
type Frequent struct {
	Itemset itemset.Itemset
	Support support.Value
}

func (f Frequent) String() string {
	return fmt.Sprintf("%s %s", f.Itemset, f.Support)
}

// Level holds the frequent k-itemsets of one iteration, sorted canonically.
type Level struct {
	K        int
	Itemsets []Frequent
}

// Len returns the number of frequent itemsets in the level.
func (l Level) Len() int { return len(l.Itemsets) }

// Sets returns the bare itemsets, in level order.
func (l Level) Sets() []itemset.Itemset {
	sets := make([]itemset.Itemset, len(l.Itemsets))
	for i, f := range l.Itemsets {
		sets[i] = f.Itemset
	}
	return sets
}

// LevelStats counts what happened to the candidates of one level.
type LevelStats struct {
	K         int
	Generated int
	Pruned    int
	Evaluated int
	Kept      int
}

// Result is the output of a run: every non-empty level in order.
type Result struct {
	Levels []Level
	Stats  []LevelStats
	// Total is the support denominator used throughout the run.
	Total int
}

// Count returns the number of frequent itemsets over all levels.
func (r *Result) Count() int {
	n := 0
	for _, l := range r.Levels {
		n += l.Len()
	}
	return n
}

// All flattens the levels, smaller itemsets first.
func (r *Result) All() []Frequent {
	all := make([]Frequent, 0, r.Count())
	for _, l := range r.Levels {
		all = append(all, l.Itemsets...)
	}
	return all
}

// Level returns the level holding k-itemsets.
func (r *Result) Level(k int) (Level, bool) {
	for _, l := range r.Levels {
		if l.K == k {
			return l, true
		}
	}
	return Level{K: k}, false
}
