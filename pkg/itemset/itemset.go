// Package itemset defines items, canonical itemsets and the one total order used
// to sort, search and compare them everywhere in freqset.
//
// An Itemset is always strictly ascending with no duplicates. Values built with
// New or Parse are canonical; the rest of the package assumes canonical input.
package itemset

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Item is an opaque item identifier. Numeric order is the canonical order.
type Item uint32

// Itemset is an ascending, duplicate free sequence of items.
type Itemset []Item

// New returns the canonical itemset holding items.
// The input slice is not modified.
func New(items ...Item) Itemset {
	s := slices.Clone(Itemset(items))
	slices.Sort(s)
	return slices.Compact(s)
}

// Compare is the canonical lexicographic order over itemsets.
// A proper prefix sorts before any of its extensions.
func Compare(a, b Itemset) int {
	return slices.Compare(a, b)
}

// Sort orders sets in place by Compare.
func Sort(sets []Itemset) {
	slices.SortFunc(sets, Compare)
}

// Search looks s up in sets, which must be sorted by Compare.
func Search(sets []Itemset, s Itemset) (int, bool) {
	return slices.BinarySearchFunc(sets, s, Compare)
}

// Equal reports whether a and b hold the same items.
func (s Itemset) Equal(other Itemset) bool {
	return Compare(s, other) == 0
}

// Len returns the number of items.
func (s Itemset) Len() int { return len(s) }

// IsCanonical reports whether s is strictly ascending.
func (s Itemset) IsCanonical() bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] >= s[i] {
			return false
		}
	}
	return true
}

// Contains reports whether item is a member of s.
func (s Itemset) Contains(item Item) bool {
	_, found := slices.BinarySearch(s, item)
	return found
}

// ContainsAll reports whether every item of sub is in s.
func (s Itemset) ContainsAll(sub Itemset) bool {
	if len(sub) > len(s) {
		return false
	}
	i := 0
	for _, want := range sub {
		for i < len(s) && s[i] < want {
			i++
		}
		if i == len(s) || s[i] != want {
			return false
		}
		i++
	}
	return true
}

// Without returns a new itemset with the element at position p removed.
func (s Itemset) Without(p int) Itemset {
	out := make(Itemset, 0, len(s)-1)
	out = append(out, s[:p]...)
	return append(out, s[p+1:]...)
}

// HasPrefix reports whether s and other share their first n items.
func (s Itemset) HasPrefix(other Itemset, n int) bool {
	if len(s) < n || len(other) < n {
		return false
	}
	return slices.Equal(s[:n], other[:n])
}

// Union merges two canonical itemsets into a new canonical itemset.
func Union(a, b Itemset) Itemset {
	out := make(Itemset, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

// String renders s as {1,2,3}.
func (s Itemset) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, item := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(item), 10))
	}
	b.WriteByte('}')
	return b.String()
}

// Parse reads an itemset written as "1 2 3", "1,2,3" or "{1,2,3}".
// The result is canonical.
func Parse(text string) (Itemset, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "{")
	text = strings.TrimSuffix(text, "}")
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	items := make([]Item, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("itemset: invalid item %q: %w", f, err)
		}
		items = append(items, Item(v))
	}
	return New(items...), nil
}
