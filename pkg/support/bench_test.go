package support

import (
	"math/rand"
	"testing"

	"github.com/bastiangx/freqset/pkg/itemset"
)

// BenchmarkSupport compares TID-list intersection against a full scan on
// 10k transactions drawn from 200 items.
func BenchmarkSupport(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	s := randomStore(rng, 10000, 200, 12)
	candidate := itemset.New(3, 17, 42)

	for _, eval := range []Evaluator{NewVertical(s), NewScan(s)} {
		b.Run(eval.Name(), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = eval.Support(candidate)
			}
		})
	}
}
