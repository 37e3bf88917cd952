// Package cli prints mining reports and runs the interactive query loop
// over a mined result.
package cli

import (
	"bufio"
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/freqset/internal/logger"
	"github.com/bastiangx/freqset/internal/utils"
	"github.com/bastiangx/freqset/pkg/dataset"
	"github.com/bastiangx/freqset/pkg/itemset"
	"github.com/bastiangx/freqset/pkg/mining"
	"github.com/bastiangx/freqset/pkg/store"
	"github.com/bastiangx/freqset/pkg/support"
	"github.com/charmbracelet/log"
)

const usage = `commands:
  support <items>   support of an itemset, by code or label
  level <k>         frequent k-itemsets
  find <prefix>     items whose label starts with prefix
  top [n]           the n most supported itemsets
  stats             store and level statistics
  quit`

// InputHandler reads queries line by line and answers them from a mined
// result and its store.
type InputHandler struct {
	store  *store.Store
	result *mining.Result
	cfg    mining.Config
	eval   support.Evaluator
	labels *dataset.Labels
	limit  int

	in       io.Reader
	out      *log.Logger
	reporter *Reporter
}

// NewInputHandler creates a handler on stdin/stdout. limit is the default
// number of itemsets listed by level and top.
func NewInputHandler(st *store.Store, res *mining.Result, cfg mining.Config, labels *dataset.Labels, limit int) (*InputHandler, error) {
	return NewInputHandlerWithIO(st, res, cfg, labels, limit, os.Stdin, os.Stdout)
}

// NewInputHandlerWithIO creates a handler reading r and writing to w.
func NewInputHandlerWithIO(st *store.Store, res *mining.Result, cfg mining.Config, labels *dataset.Labels, limit int, r io.Reader, w io.Writer) (*InputHandler, error) {
	eval, err := support.ByName(cfg.Evaluator, st)
	if err != nil {
		return nil, err
	}
	out := logger.Report(w)
	reporter := NewReporter(out, labels)
	reporter.Limit = limit
	return &InputHandler{
		store:    st,
		result:   res,
		cfg:      cfg,
		eval:     eval,
		labels:   labels,
		limit:    limit,
		in:       r,
		out:      out,
		reporter: reporter,
	}, nil
}

// Start runs the query loop until quit or the end of input.
func (h *InputHandler) Start() error {
	h.out.Print("freqset CLI")
	h.out.Print("type a command and press Enter (help for the list, Ctrl+C to exit):")

	scanner := bufio.NewScanner(h.in)
	for {
		h.out.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		if err := h.handleInput(line); err != nil {
			log.Errorf("%v", err)
		}
	}
}

func (h *InputHandler) handleInput(line string) error {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	start := time.Now()
	defer func() { log.Debugf("Took [ %v ] for '%s'", time.Since(start), line) }()

	switch cmd {
	case "support":
		return h.handleSupport(arg)
	case "level":
		return h.handleLevel(arg)
	case "find":
		return h.handleFind(arg)
	case "top":
		return h.handleTop(arg)
	case "stats":
		h.handleStats()
		return nil
	case "help":
		h.out.Print(usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q, try help", cmd)
	}
}

func (h *InputHandler) handleSupport(arg string) error {
	set, err := h.resolve(arg)
	if err != nil {
		return err
	}
	v := h.eval.Support(set)
	verdict := "infrequent"
	if h.cfg.Threshold.Passes(v) {
		verdict = "frequent"
	}
	h.out.Printf("%s %s %s", itemsetStyle.Render(h.labels.Format(set)), v, verdict)
	return nil
}

// resolve reads an itemset written with item codes or labels. Labels with
// spaces need comma separation.
func (h *InputHandler) resolve(arg string) (itemset.Itemset, error) {
	if arg == "" {
		return nil, errors.New("usage: support <items>")
	}
	if set, err := itemset.Parse(arg); err == nil {
		return set, nil
	}

	var tokens []string
	if strings.Contains(arg, ",") {
		tokens = strings.Split(strings.Trim(arg, "{}"), ",")
	} else {
		tokens = strings.Fields(arg)
	}
	items := make([]itemset.Item, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if v, err := strconv.ParseUint(tok, 10, 32); err == nil {
			items = append(items, itemset.Item(v))
			continue
		}
		if h.labels == nil {
			return nil, fmt.Errorf("unknown item %q", tok)
		}
		item, ok := h.labels.Lookup(tok)
		if !ok {
			return nil, fmt.Errorf("unknown item %q", tok)
		}
		items = append(items, item)
	}
	return itemset.New(items...), nil
}

func (h *InputHandler) handleLevel(arg string) error {
	k, err := strconv.Atoi(arg)
	if err != nil || k < 1 {
		return fmt.Errorf("usage: level <k>, got %q", arg)
	}
	level, ok := h.result.Level(k)
	if !ok {
		log.Warnf("No frequent itemsets of size %d", k)
		return nil
	}
	return h.reporter.Level(level)
}

func (h *InputHandler) handleFind(arg string) error {
	if h.labels == nil || h.labels.Len() == 0 {
		return errors.New("the dataset has no item labels")
	}
	entries := h.labels.Find(arg)
	if len(entries) == 0 {
		log.Warnf("No items found for prefix: '%s'", arg)
		return nil
	}
	h.out.Printf("Found %d items for prefix '%s':", len(entries), arg)
	for i, e := range entries {
		if h.limit > 0 && i == h.limit {
			h.out.Printf("  ... %d more", len(entries)-h.limit)
			break
		}
		h.out.Printf("%2d. %-8d %-32s (count: %8s)", i+1, e.Item, e.Label,
			utils.FormatWithCommas(h.store.Count(e.Item)))
	}
	return nil
}

func (h *InputHandler) handleTop(arg string) error {
	n := h.limit
	if arg != "" {
		v, err := strconv.Atoi(arg)
		if err != nil || v < 1 {
			return fmt.Errorf("usage: top [n], got %q", arg)
		}
		n = v
	}

	all := h.result.All()
	slices.SortStableFunc(all, func(a, b mining.Frequent) int {
		return cmp.Compare(b.Support.Count, a.Support.Count)
	})
	if n > 0 && n < len(all) {
		all = all[:n]
	}
	h.reporter.itemsets(all, 0)
	return nil
}

func (h *InputHandler) handleStats() {
	st := h.store.Stats()
	h.out.Printf("Transactions: %s  Items: %s  Entries: %s  Max size: %d",
		utils.FormatWithCommas(st.Transactions), utils.FormatWithCommas(st.Items),
		utils.FormatWithCommas(st.Entries), st.MaxSize)
	for _, s := range h.result.Stats {
		h.out.Printf("  k=%d generated %d pruned %d evaluated %d kept %d",
			s.K, s.Generated, s.Pruned, s.Evaluated, s.Kept)
	}
}
