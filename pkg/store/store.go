// Package store holds the transaction collection of one mining run together
// with its vertical representation: for every item, the bitmap of transaction
// ids containing it (the TID-list).
//
// A Store is immutable after New returns, so any number of goroutines may read
// from it concurrently.
package store

import (
	"slices"

	"github.com/RoaringBitmap/roaring"
	"github.com/bastiangx/freqset/pkg/itemset"
)

// Transaction is an unordered set of items recorded together.
type Transaction []itemset.Item

// TID is the 0-based position of a transaction in the store.
type TID = uint32

// Stats describes the shape of a store.
type Stats struct {
	Transactions int
	Items        int
	Entries      int // sum of transaction sizes
	MaxSize      int
}

// Store owns the canonical transactions and the per-item TID-lists.
type Store struct {
	transactions []itemset.Itemset
	tids         map[itemset.Item]*roaring.Bitmap
	items        itemset.Itemset
	entries      int
	maxSize      int
}

var emptyBitmap = roaring.New()

// New builds a store from txs in one pass over every transaction.
// Transaction ids follow the order of txs. Duplicate items inside a
// transaction are collapsed.
func New(txs []Transaction) *Store {
	s := &Store{
		transactions: make([]itemset.Itemset, len(txs)),
		tids:         make(map[itemset.Item]*roaring.Bitmap),
	}

	for i, tx := range txs {
		canonical := itemset.New(tx...)
		s.transactions[i] = canonical
		s.entries += len(canonical)
		if len(canonical) > s.maxSize {
			s.maxSize = len(canonical)
		}

		for _, item := range canonical {
			bm, ok := s.tids[item]
			if !ok {
				bm = roaring.New()
				s.tids[item] = bm
			}
			bm.Add(TID(i))
		}
	}

	s.items = make(itemset.Itemset, 0, len(s.tids))
	for item, bm := range s.tids {
		bm.RunOptimize()
		s.items = append(s.items, item)
	}
	slices.Sort(s.items)

	return s
}

// Total is the transaction count, the fixed support denominator of the run.
func (s *Store) Total() int {
	return len(s.transactions)
}

// Items returns the sorted item universe.
func (s *Store) Items() itemset.Itemset {
	return slices.Clone(s.items)
}

// TIDs returns the TID-list of item, empty when the item never occurs.
// The bitmap is shared with the store and must not be modified.
func (s *Store) TIDs(item itemset.Item) *roaring.Bitmap {
	if bm, ok := s.tids[item]; ok {
		return bm
	}
	return emptyBitmap
}

// Count returns how many transactions contain item.
func (s *Store) Count(item itemset.Item) int {
	return int(s.TIDs(item).GetCardinality())
}

// Transaction returns the canonical transaction with the given id.
func (s *Store) Transaction(tid TID) itemset.Itemset {
	return s.transactions[tid]
}

// Each calls fn for every transaction in id order until fn returns false.
func (s *Store) Each(fn func(tid TID, tx itemset.Itemset) bool) {
	for i, tx := range s.transactions {
		if !fn(TID(i), tx) {
			return
		}
	}
}

// Stats reports sizes of the store.
func (s *Store) Stats() Stats {
	return Stats{
		Transactions: len(s.transactions),
		Items:        len(s.items),
		Entries:      s.entries,
		MaxSize:      s.maxSize,
	}
}
