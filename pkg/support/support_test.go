package support

import (
	"math"
	"math/rand"
	"testing"

	"github.com/RoaringBitmap/roaring"
	"github.com/bastiangx/freqset/pkg/itemset"
	"github.com/bastiangx/freqset/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioStore() *store.Store {
	return store.New([]store.Transaction{{1, 2, 3}, {1, 2}, {1, 3}, {2, 3}, {1}})
}

func randomStore(rng *rand.Rand, n, universe, maxLen int) *store.Store {
	txs := make([]store.Transaction, n)
	for i := range txs {
		size := rng.Intn(maxLen + 1)
		tx := make(store.Transaction, 0, size)
		for j := 0; j < size; j++ {
			tx = append(tx, itemset.Item(rng.Intn(universe)))
		}
		txs[i] = tx
	}
	return store.New(txs)
}

func TestScenarioSupport(t *testing.T) {
	s := scenarioStore()
	testCases := []struct {
		items itemset.Itemset
		count int
	}{
		{itemset.Itemset{1}, 4},
		{itemset.Itemset{2}, 3},
		{itemset.Itemset{3}, 3},
		{itemset.Itemset{1, 2}, 2},
		{itemset.Itemset{1, 3}, 2},
		{itemset.Itemset{2, 3}, 2},
		{itemset.Itemset{1, 2, 3}, 1},
		{itemset.Itemset{4}, 0},
		{itemset.Itemset{1, 4}, 0},
		{itemset.Itemset{}, 5},
	}

	for _, eval := range []Evaluator{NewVertical(s), NewScan(s)} {
		for _, tc := range testCases {
			got := eval.Support(tc.items)
			assert.Equal(t, Value{Count: tc.count, Total: 5}, got, "%s %v", eval.Name(), tc.items)
		}
	}

	assert.Equal(t, 0.8, NewVertical(s).Support(itemset.Itemset{1}).Ratio())
	assert.Equal(t, 0.4, NewVertical(s).Support(itemset.Itemset{1, 2}).Ratio())
}

// Both strategies must agree on every itemset.
func TestVerticalMatchesScan(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := randomStore(rng, 200, 12, 6)
	vertical, scan := NewVertical(s), NewScan(s)

	for i := 0; i < 500; i++ {
		size := 1 + rng.Intn(4)
		items := make([]itemset.Item, size)
		for j := range items {
			items[j] = itemset.Item(rng.Intn(14))
		}
		candidate := itemset.New(items...)
		require.Equal(t, scan.Support(candidate), vertical.Support(candidate), "candidate %v", candidate)
	}
}

func TestSupportMonotonicity(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	s := randomStore(rng, 150, 8, 5)
	eval := NewVertical(s)

	for i := 0; i < 200; i++ {
		a := itemset.New(itemset.Item(rng.Intn(8)), itemset.Item(rng.Intn(8)))
		b := itemset.Union(a, itemset.New(itemset.Item(rng.Intn(8))))
		assert.LessOrEqual(t, eval.Support(b).Count, eval.Support(a).Count, "%v ⊂ %v", a, b)
	}
}

func TestEmptyStoreSupport(t *testing.T) {
	s := store.New(nil)
	v := NewVertical(s).Support(itemset.Itemset{1, 2})
	assert.Equal(t, Value{Count: 0, Total: 0}, v)
	assert.Zero(t, v.Ratio())
	assert.Equal(t, v, NewScan(s).Support(itemset.Itemset{1, 2}))
}

func TestVerticalAbsentItem(t *testing.T) {
	s := scenarioStore()
	v := NewVertical(s)

	for _, c := range []itemset.Itemset{{42, 1}, {1, 42}, {1, 2, 42}, {0, 1, 2}} {
		got := v.Support(c)
		assert.Equal(t, Value{Count: 0, Total: 5}, got, "%v", c)
		assert.Equal(t, got, NewScan(s).Support(c), "%v", c)
	}
	// the shared empty list of an unknown item stays empty
	assert.True(t, s.TIDs(42).IsEmpty())
}

func TestIntersectIsPure(t *testing.T) {
	a := roaring.BitmapOf(1, 2, 3)
	b := roaring.BitmapOf(2, 3, 4)
	out := Intersect(a, b)

	assert.Equal(t, []uint32{2, 3}, out.ToArray())
	assert.Equal(t, []uint32{1, 2, 3}, a.ToArray())
	assert.Equal(t, []uint32{2, 3, 4}, b.ToArray())

	out.Add(9)
	assert.False(t, a.Contains(9))
}

// The store's TID-lists stay intact after many evaluations.
func TestVerticalLeavesStoreUntouched(t *testing.T) {
	s := scenarioStore()
	eval := NewVertical(s)
	for i := 0; i < 3; i++ {
		eval.Support(itemset.Itemset{1, 2, 3})
	}
	assert.Equal(t, []uint32{0, 1, 2, 4}, s.TIDs(1).ToArray())
}

func TestByName(t *testing.T) {
	s := scenarioStore()

	e, err := ByName("scan", s)
	require.NoError(t, err)
	assert.Equal(t, ScanName, e.Name())

	e, err = ByName("", s)
	require.NoError(t, err)
	assert.Equal(t, VerticalName, e.Name())

	_, err = ByName("bitset", s)
	assert.Error(t, err)
}

func TestThreshold(t *testing.T) {
	boundary := Value{Count: 2, Total: 5}
	below := Value{Count: 1, Total: 5}

	inclusive := Threshold{MinSupport: 0.4, Policy: Inclusive}
	strict := Threshold{MinSupport: 0.4, Policy: Strict}

	assert.True(t, inclusive.Passes(boundary))
	assert.False(t, inclusive.Passes(below))
	assert.False(t, strict.Passes(boundary))
	assert.True(t, strict.Passes(Value{Count: 3, Total: 5}))

	// a zero minimum support keeps itemsets that never occur
	assert.True(t, Threshold{MinSupport: 0}.Passes(Value{Count: 0, Total: 2}))
	assert.False(t, Threshold{MinSupport: 0, Policy: Strict}.Passes(Value{Count: 0, Total: 2}))
	assert.True(t, Threshold{MinSupport: 0}.Passes(Value{Count: 1, Total: 5}))
	assert.True(t, Threshold{MinSupport: 1}.Passes(Value{Count: 5, Total: 5}))
}

func TestThresholdValidate(t *testing.T) {
	for _, ms := range []float64{0, 0.5, 1} {
		assert.NoError(t, Threshold{MinSupport: ms}.Validate())
	}
	for _, ms := range []float64{-0.1, 1.01, math.NaN(), math.Inf(1)} {
		assert.ErrorIs(t, Threshold{MinSupport: ms}.Validate(), ErrInvalidMinSupport, "%v", ms)
	}
	assert.Error(t, Threshold{MinSupport: 0.5, Policy: Policy(7)}.Validate())
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("strict")
	require.NoError(t, err)
	assert.Equal(t, Strict, p)
	assert.Equal(t, "strict", p.String())

	p, err = ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, Inclusive, p)

	_, err = ParsePolicy(">=")
	assert.Error(t, err)
}
