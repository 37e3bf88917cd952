package cli

import (
	"time"

	"github.com/bastiangx/freqset/internal/utils"
	"github.com/bastiangx/freqset/pkg/dataset"
	"github.com/bastiangx/freqset/pkg/mining"
	"github.com/bastiangx/freqset/pkg/store"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	itemsetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
)

// Reporter prints mining results as they are produced.
type Reporter struct {
	out    *log.Logger
	labels *dataset.Labels
	// Limit caps the itemsets printed per level; 0 prints all of them.
	Limit int
}

// NewReporter creates a reporter writing to out. labels may be nil.
func NewReporter(out *log.Logger, labels *dataset.Labels) *Reporter {
	return &Reporter{out: out, labels: labels}
}

// Header prints the store summary and the threshold in use.
func (r *Reporter) Header(st *store.Store, cfg mining.Config) {
	stats := st.Stats()
	r.out.Print(headerStyle.Render("freqset"))
	r.out.Printf("Transactions: %s  Items: %s  Max size: %d",
		utils.FormatWithCommas(stats.Transactions), utils.FormatWithCommas(stats.Items), stats.MaxSize)
	r.out.Printf("Minimum support: %.4f (%s)", cfg.Threshold.MinSupport, cfg.Threshold.Policy)
}

// Level prints one frequent level. It has the shape of a
// mining.LevelHandler so it can run while the search goes on.
func (r *Reporter) Level(level mining.Level) error {
	r.out.Printf("Level %d", level.K)
	r.out.Printf("Total number of item sets: %s", utils.FormatWithCommas(level.Len()))
	r.itemsets(level.Itemsets, r.Limit)
	return nil
}

// Summary prints the totals of a finished run.
func (r *Reporter) Summary(res *mining.Result, took time.Duration) {
	generated, pruned := 0, 0
	for _, s := range res.Stats {
		generated += s.Generated
		pruned += s.Pruned
	}
	r.out.Printf("Frequent itemsets: %s over %d levels (%s candidates, %s pruned)",
		utils.FormatWithCommas(res.Count()), len(res.Levels),
		utils.FormatWithCommas(generated), utils.FormatWithCommas(pruned))
	r.out.Printf("time\t%v", took.Round(time.Microsecond))
}

func (r *Reporter) itemsets(fs []mining.Frequent, limit int) {
	for i, f := range fs {
		if limit > 0 && i == limit {
			r.out.Printf("  ... %d more", len(fs)-limit)
			return
		}
		r.out.Printf("  %-40s %s", itemsetStyle.Render(r.labels.Format(f.Itemset)), f.Support)
	}
}
