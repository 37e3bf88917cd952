package itemset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCanonicalises(t *testing.T) {
	in := []Item{3, 1, 2, 3, 1}
	s := New(in...)

	assert.Equal(t, Itemset{1, 2, 3}, s)
	assert.True(t, s.IsCanonical())
	// input untouched
	assert.Equal(t, []Item{3, 1, 2, 3, 1}, in)
	assert.Empty(t, New())
}

// Compare must agree for sort, search and equality; shorter prefixes sort first.
func TestCompare(t *testing.T) {
	testCases := []struct {
		a, b Itemset
		want int
	}{
		{Itemset{1, 2}, Itemset{1, 2}, 0},
		{Itemset{1, 2}, Itemset{1, 3}, -1},
		{Itemset{2}, Itemset{1, 9}, 1},
		{Itemset{1}, Itemset{1, 2}, -1},
		{Itemset{}, Itemset{0}, -1},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, Compare(tc.a, tc.b), "%v vs %v", tc.a, tc.b)
		assert.Equal(t, -tc.want, Compare(tc.b, tc.a), "%v vs %v", tc.b, tc.a)
	}
}

func TestSortAndSearch(t *testing.T) {
	sets := []Itemset{{2, 3}, {1, 3}, {1, 2}, {1, 4}}
	Sort(sets)
	assert.Equal(t, []Itemset{{1, 2}, {1, 3}, {1, 4}, {2, 3}}, sets)

	idx, found := Search(sets, Itemset{1, 4})
	assert.True(t, found)
	assert.Equal(t, 2, idx)

	_, found = Search(sets, Itemset{2, 4})
	assert.False(t, found)
}

func TestContainsAll(t *testing.T) {
	s := Itemset{1, 3, 5, 7}
	assert.True(t, s.ContainsAll(Itemset{}))
	assert.True(t, s.ContainsAll(Itemset{3, 7}))
	assert.True(t, s.ContainsAll(s))
	assert.False(t, s.ContainsAll(Itemset{2}))
	assert.False(t, s.ContainsAll(Itemset{7, 8}))
	assert.False(t, Itemset{1}.ContainsAll(Itemset{1, 2}))

	assert.True(t, s.Contains(5))
	assert.False(t, s.Contains(4))
}

func TestWithoutDoesNotAlias(t *testing.T) {
	s := Itemset{1, 2, 3}
	sub := s.Without(1)
	assert.Equal(t, Itemset{1, 3}, sub)
	sub[0] = 9
	assert.Equal(t, Itemset{1, 2, 3}, s)

	assert.Equal(t, Itemset{2, 3}, s.Without(0))
	assert.Equal(t, Itemset{1, 2}, s.Without(2))
}

func TestUnionAndPrefix(t *testing.T) {
	assert.Equal(t, Itemset{1, 2, 3, 5}, Union(Itemset{1, 3}, Itemset{2, 3, 5}))
	assert.Equal(t, Itemset{4}, Union(nil, Itemset{4}))

	assert.True(t, Itemset{1, 2, 3}.HasPrefix(Itemset{1, 2, 4}, 2))
	assert.False(t, Itemset{1, 2, 3}.HasPrefix(Itemset{1, 3, 4}, 2))
	assert.True(t, Itemset{1}.HasPrefix(Itemset{2}, 0))
}

func TestParseAndString(t *testing.T) {
	for _, in := range []string{"1 2 3", "3,2,1", "{1,2,3}", " { 2, 3 ,1 } "} {
		s, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, Itemset{1, 2, 3}, s, in)
		assert.Equal(t, "{1,2,3}", s.String())
	}

	_, err := Parse("1 x 3")
	assert.Error(t, err)

	empty, err := Parse("{}")
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.Equal(t, "{}", Itemset{}.String())
}
