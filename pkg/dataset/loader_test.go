package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bastiangx/freqset/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const transcripts = `# year {month code name credit grade}*
2016 08-2016 12 Algebra 7.5 10 08-2016 40 Calculus 7.5 8
2016 08-2016 12 Algebra 7.5 6

2016 01-2017 40 Calculus 7.5 9 01-2017 55 Logic 5 7
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadTranscripts(t *testing.T) {
	ds, err := Read(strings.NewReader(transcripts), Options{Format: FormatTranscript})
	require.NoError(t, err)

	assert.Equal(t, []store.Transaction{{12, 40}, {12}, {40, 55}}, ds.Transactions)
	assert.Equal(t, LoadStats{Lines: 5, Records: 3, Skipped: 0, Items: 3}, ds.Stats)

	name, ok := ds.Labels.Name(12)
	require.True(t, ok)
	assert.Equal(t, "Algebra", name)

	item, ok := ds.Labels.Lookup("logic")
	require.True(t, ok)
	assert.EqualValues(t, 55, item)
}

func TestTranscriptWithoutCourses(t *testing.T) {
	ds, err := Read(strings.NewReader("2016\n"), Options{Format: FormatTranscript})
	require.NoError(t, err)
	require.Len(t, ds.Transactions, 1)
	assert.Empty(t, ds.Transactions[0])
}

func TestMalformedTranscripts(t *testing.T) {
	cases := map[string]string{
		"partial group": "2016 08-2016 12 Algebra 7.5",
		"bad year":      "year 08-2016 12 Algebra 7.5 10",
		"bad code":      "2016 08-2016 x12 Algebra 7.5 10",
		"bad credit":    "2016 08-2016 12 Algebra many 10",
		"bad grade":     "2016 08-2016 12 Algebra 7.5 A",
		"bad month":     "2016 aug 12 Algebra 7.5 10",
	}
	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseTranscript(line, NewLabels())
			assert.Error(t, err)
		})
	}
}

func TestSkipMalformedKeepsLoading(t *testing.T) {
	input := "1 2 3\n1 two\n2 3\n"
	ds, err := Read(strings.NewReader(input), Options{Format: FormatBasket})
	require.NoError(t, err)

	assert.Equal(t, []store.Transaction{{1, 2, 3}, {2, 3}}, ds.Transactions)
	assert.Equal(t, 1, ds.Stats.Skipped)
	assert.Equal(t, 2, ds.Stats.Records)
}

func TestFailOnMalformed(t *testing.T) {
	input := "1 2 3\n1 two\n2 3\n"
	ds, err := Read(strings.NewReader(input), Options{Format: FormatBasket, OnMalformed: FailOnMalformed})
	require.Error(t, err)
	assert.Nil(t, ds)
	assert.ErrorIs(t, err, ErrMalformedRecord)

	var recErr *RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, 2, recErr.Line)
	assert.Equal(t, "1 two", recErr.Text)
}

func TestBasketSeparators(t *testing.T) {
	ds, err := Read(strings.NewReader("1,2;3\n4\t5 6\n"), Options{Format: FormatBasket})
	require.NoError(t, err)
	assert.Equal(t, []store.Transaction{{1, 2, 3}, {4, 5, 6}}, ds.Transactions)
	assert.Zero(t, ds.Labels.Len())
}

func TestReadLabeled(t *testing.T) {
	input := "bread, milk, peanut butter\nmilk bread\n"
	ds, err := Read(strings.NewReader(input), Options{Format: FormatLabeled})
	require.NoError(t, err)

	assert.Equal(t, []store.Transaction{{1, 2, 3}, {2, 1}}, ds.Transactions)
	item, ok := ds.Labels.Lookup("Peanut Butter")
	require.True(t, ok)
	assert.EqualValues(t, 3, item)
}

func TestReadUnknownFormat(t *testing.T) {
	_, err := Read(strings.NewReader("1 2"), Options{})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoadMissingSource(t *testing.T) {
	ds, err := Load(filepath.Join(t.TempDir(), "missing.csv"), Options{})
	require.Error(t, err)
	assert.Nil(t, ds)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestLoadDetectsFormat(t *testing.T) {
	path := writeFile(t, "data-2016.csv", transcripts)
	ds, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, FormatTranscript, ds.Format)
	assert.Len(t, ds.Transactions, 3)

	st := ds.Store()
	assert.Equal(t, 3, st.Total())
	assert.Equal(t, 2, st.Count(12))
}

func TestLoadCSVBaskets(t *testing.T) {
	path := writeFile(t, "baskets.csv", "1,2,3\n2,3\n")
	ds, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, FormatBasket, ds.Format)
	assert.Equal(t, []store.Transaction{{1, 2, 3}, {2, 3}}, ds.Transactions)
}

func TestLoadUndetectableFormat(t *testing.T) {
	path := writeFile(t, "data.xyz", "1 2 3\n")
	_, err := Load(path, Options{})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestSkippedTranscriptLeavesLabelsAlone(t *testing.T) {
	input := "2016 08-2016 12 Algebra 7.5 10\n" +
		"2016 08-2016 40 Algebra 7.5 10 08-2016 55 Logic 5 A\n"
	ds, err := Read(strings.NewReader(input), Options{Format: FormatTranscript})
	require.NoError(t, err)
	require.Equal(t, 1, ds.Stats.Skipped)

	item, ok := ds.Labels.Lookup("Algebra")
	require.True(t, ok)
	assert.EqualValues(t, 12, item)
	_, ok = ds.Labels.Lookup("Logic")
	assert.False(t, ok)
	_, ok = ds.Labels.Name(40)
	assert.False(t, ok)
	assert.Equal(t, 1, ds.Labels.Len())
}
