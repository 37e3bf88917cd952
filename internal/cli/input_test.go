package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/bastiangx/freqset/internal/logger"
	"github.com/bastiangx/freqset/pkg/dataset"
	"github.com/bastiangx/freqset/pkg/mining"
	"github.com/bastiangx/freqset/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T) (*store.Store, *mining.Result, mining.Config, *dataset.Labels) {
	t.Helper()
	st := store.New([]store.Transaction{{1, 2, 3}, {1, 2}, {1, 3}, {2, 3}, {1}})
	cfg := mining.DefaultConfig()
	cfg.Threshold.MinSupport = 0.4

	m, err := mining.NewMiner(st, cfg, mining.WithLogger(logger.Report(&bytes.Buffer{})))
	require.NoError(t, err)
	res, err := m.Mine()
	require.NoError(t, err)

	labels := dataset.NewLabels()
	labels.Assign("Algebra", 1)
	labels.Assign("Calculus", 2)
	labels.Assign("Calculus II", 3)
	return st, res, cfg, labels
}

func run(t *testing.T, input string) string {
	t.Helper()
	st, res, cfg, labels := fixture(t)
	var out bytes.Buffer
	h, err := NewInputHandlerWithIO(st, res, cfg, labels, 24, strings.NewReader(input), &out)
	require.NoError(t, err)
	require.NoError(t, h.Start())
	return out.String()
}

func TestSupportByCode(t *testing.T) {
	out := run(t, "support 2 1\n")
	assert.Contains(t, out, "{1:Algebra,2:Calculus}")
	assert.Contains(t, out, "0.4000 (2/5) frequent")
}

func TestSupportByLabel(t *testing.T) {
	out := run(t, "support algebra, calculus ii\n")
	assert.Contains(t, out, "{1:Algebra,3:Calculus II}")
	assert.Contains(t, out, "(2/5)")
}

func TestSupportInfrequent(t *testing.T) {
	out := run(t, "support 1 2 3\n")
	assert.Contains(t, out, "0.2000 (1/5) infrequent")
}

func TestLevel(t *testing.T) {
	out := run(t, "level 2\n")
	assert.Contains(t, out, "Total number of item sets: 3")
	assert.Contains(t, out, "{2:Calculus,3:Calculus II}")
}

func TestFind(t *testing.T) {
	out := run(t, "find calc\nquit\nsupport 1\n")
	assert.Contains(t, out, "Found 2 items for prefix 'calc'")
	assert.Contains(t, out, "Calculus II")
	// nothing after quit runs
	assert.NotContains(t, out, "(4/5)")
}

func TestTop(t *testing.T) {
	out := run(t, "top 1\n")
	assert.Contains(t, out, "{1:Algebra}")
	assert.NotContains(t, out, "{2:Calculus}")
}

func TestStats(t *testing.T) {
	out := run(t, "stats\n")
	assert.Contains(t, out, "Transactions: 5  Items: 3  Entries: 10  Max size: 3")
	assert.Contains(t, out, "k=2 generated 3 pruned 0 evaluated 3 kept 3")
}

func TestBadCommandsKeepLoopAlive(t *testing.T) {
	out := run(t, "explode\nlevel x\nsupport nope\nlevel 1\n")
	assert.Contains(t, out, "Total number of item sets: 3")
}

func TestReporterLimitsLevel(t *testing.T) {
	_, res, _, _ := fixture(t)
	var out bytes.Buffer
	r := NewReporter(logger.Report(&out), nil)
	r.Limit = 1

	level, ok := res.Level(1)
	require.True(t, ok)
	require.NoError(t, r.Level(level))
	r.Summary(res, time.Millisecond)

	assert.Contains(t, out.String(), "{1}")
	assert.Contains(t, out.String(), "0.8000 (4/5)")
	assert.Contains(t, out.String(), "... 2 more")
	assert.Contains(t, out.String(), "Frequent itemsets: 6 over 2 levels")
}
