package support

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidMinSupport is returned when a minimum support lies outside [0,1].
var ErrInvalidMinSupport = errors.New("support: minimum support must be within [0,1]")

// Policy selects how a support value is compared with the minimum support.
type Policy int

const (
	// Inclusive keeps itemsets with support >= minsup.
	Inclusive Policy = iota
	// Strict keeps itemsets with support > minsup.
	Strict
)

func (p Policy) String() string {
	switch p {
	case Inclusive:
		return "inclusive"
	case Strict:
		return "strict"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy reads a policy name as written in the config file.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "inclusive", "":
		return Inclusive, nil
	case "strict":
		return Strict, nil
	default:
		return Inclusive, fmt.Errorf("support: unknown threshold policy %q", name)
	}
}

// Threshold decides whether an itemset is frequent.
type Threshold struct {
	MinSupport float64
	Policy     Policy
}

// Validate fails fast on a threshold that cannot be mined with.
func (t Threshold) Validate() error {
	if math.IsNaN(t.MinSupport) || t.MinSupport < 0 || t.MinSupport > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidMinSupport, t.MinSupport)
	}
	if t.Policy != Inclusive && t.Policy != Strict {
		return fmt.Errorf("support: unknown threshold policy %v", t.Policy)
	}
	return nil
}

// Passes reports whether v reaches the threshold.
func (t Threshold) Passes(v Value) bool {
	r := v.Ratio()
	if t.Policy == Strict {
		return r > t.MinSupport
	}
	return r >= t.MinSupport
}
