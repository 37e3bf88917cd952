// Package support computes how often an itemset occurs in a store.
//
// Two strategies implement Evaluator: Vertical intersects per-item TID-lists
// and stops as soon as the running intersection is empty, Scan walks every
// transaction. Both return identical values for every itemset.
package support

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"
	"github.com/bastiangx/freqset/pkg/itemset"
	"github.com/bastiangx/freqset/pkg/store"
)

// Strategy names accepted by ByName.
const (
	VerticalName = "vertical"
	ScanName     = "scan"
)

// Value is the support of an itemset: Count of Total transactions contain it.
type Value struct {
	Count int
	Total int
}

// Ratio returns Count/Total, or 0 for an empty store.
func (v Value) Ratio() float64 {
	if v.Total == 0 {
		return 0
	}
	return float64(v.Count) / float64(v.Total)
}

func (v Value) String() string {
	return fmt.Sprintf("%.4f (%d/%d)", v.Ratio(), v.Count, v.Total)
}

// Evaluator computes the support of a canonical itemset.
type Evaluator interface {
	// Support returns the support of candidate.
	Support(candidate itemset.Itemset) Value

	// Name identifies the strategy in logs and config.
	Name() string
}

// ByName returns the evaluator registered under name.
func ByName(name string, s *store.Store) (Evaluator, error) {
	switch name {
	case VerticalName, "":
		return NewVertical(s), nil
	case ScanName:
		return NewScan(s), nil
	default:
		return nil, fmt.Errorf("support: unknown evaluator %q", name)
	}
}

// Vertical evaluates support from the TID-lists of a store.
type Vertical struct {
	store *store.Store
}

// NewVertical creates a TID-list intersection evaluator.
func NewVertical(s *store.Store) *Vertical {
	return &Vertical{store: s}
}

func (v *Vertical) Name() string { return VerticalName }

func (v *Vertical) Support(candidate itemset.Itemset) Value {
	total := v.store.Total()
	switch len(candidate) {
	case 0:
		return Value{Count: total, Total: total}
	case 1:
		return Value{Count: v.store.Count(candidate[0]), Total: total}
	}

	acc := v.store.TIDs(candidate[0])
	if acc.IsEmpty() {
		return Value{Count: 0, Total: total}
	}
	for _, item := range candidate[1:] {
		acc = Intersect(acc, v.store.TIDs(item))
		if acc.IsEmpty() {
			return Value{Count: 0, Total: total}
		}
	}
	return Value{Count: int(acc.GetCardinality()), Total: total}
}

// Intersect returns a new bitmap holding the ids present in both a and b.
// Neither input is modified.
func Intersect(a, b *roaring.Bitmap) *roaring.Bitmap {
	return roaring.And(a, b)
}

// Scan evaluates support by checking every transaction of a store.
type Scan struct {
	store *store.Store
}

// NewScan creates a horizontal scan evaluator.
func NewScan(s *store.Store) *Scan {
	return &Scan{store: s}
}

func (sc *Scan) Name() string { return ScanName }

func (sc *Scan) Support(candidate itemset.Itemset) Value {
	matches := 0
	sc.store.Each(func(_ store.TID, tx itemset.Itemset) bool {
		if tx.ContainsAll(candidate) {
			matches++
		}
		return true
	})
	return Value{Count: matches, Total: sc.store.Total()}
}
