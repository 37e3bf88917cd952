package mining

import "errors"

var (
	// ErrInvalidConfig indicates a configuration rejected before mining starts.
	ErrInvalidConfig = errors.New("mining: invalid configuration")
	// ErrNilStore indicates a miner built without a transaction store.
	ErrNilStore = errors.New("mining: store must not be nil")
	// ErrEvaluator indicates a support evaluator that failed on a candidate.
	ErrEvaluator = errors.New("mining: support evaluation failed")
)
