package mining

import "github.com/bastiangx/freqset/pkg/itemset"

// Generate joins the sorted, duplicate free k-itemsets of level into raw
// (k+1)-candidates. Two 1-itemsets always join; larger itemsets join when
// their first k-1 items match. Output follows the canonical order.
func Generate(level []itemset.Itemset) []itemset.Itemset {
	if len(level) < 2 {
		return nil
	}

	var candidates []itemset.Itemset
	for i := 0; i < len(level)-1; i++ {
		prev := level[i]
		k := len(prev)
		for j := i + 1; j < len(level); j++ {
			cur := level[j]
			// same-prefix itemsets are contiguous in a sorted level
			if k > 1 && !prev.HasPrefix(cur, k-1) {
				break
			}
			candidates = append(candidates, itemset.Union(prev, cur))
		}
	}
	return candidates
}

// ShouldPrune reports whether candidate has a k-subset missing from level,
// which must be sorted by itemset.Compare.
func ShouldPrune(candidate itemset.Itemset, level []itemset.Itemset) bool {
	for p := range candidate {
		if _, found := itemset.Search(level, candidate.Without(p)); !found {
			return true
		}
	}
	return false
}
