/*
Package mining implements the Apriori level-wise search for frequent itemsets.

A run starts from the frequent single items of a store and repeatedly moves
from Level(k) to Level(k+1):

 1. Generate joins every pair of k-itemsets sharing their first k-1 items.
 2. ShouldPrune drops a candidate whose k-subsets are not all frequent;
    its support is never computed.
 3. The support evaluator counts the remaining candidates and the threshold
    keeps those that are frequent.
 4. The survivors, sorted by itemset.Compare, become Level(k+1).

The search stops at the first empty level. Every level is fully computed before
the next one starts; with Config.Workers > 1 the support evaluation inside a
level is spread over a bounded set of goroutines and produces the same output.

# Usage

	st := store.New(transactions)
	miner, err := mining.NewMiner(st, mining.Config{
		Threshold: support.Threshold{MinSupport: 0.4},
	})
	if err != nil {
		return err
	}
	res, err := miner.Mine()

Levels can be consumed as they complete with WithLevelHandler.
*/
package mining
