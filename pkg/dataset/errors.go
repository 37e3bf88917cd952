package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable indicates the transaction source cannot be opened or read.
	ErrSourceUnavailable = errors.New("dataset: source unavailable")
	// ErrMalformedRecord indicates a record that cannot be parsed into items.
	ErrMalformedRecord = errors.New("dataset: malformed record")
	// ErrUnknownFormat indicates a format that cannot be detected or is not supported.
	ErrUnknownFormat = errors.New("dataset: unknown format")
)

// RecordError describes one rejected record.
type RecordError struct {
	Line int
	Text string
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("dataset: malformed record at line %d: %v", e.Line, e.Err)
}

// Unwrap exposes both ErrMalformedRecord and the parse failure.
func (e *RecordError) Unwrap() []error {
	return []error{ErrMalformedRecord, e.Err}
}

// MalformedPolicy decides what happens to a record that cannot be parsed.
type MalformedPolicy int

const (
	// SkipMalformed rejects the record and keeps loading.
	SkipMalformed MalformedPolicy = iota
	// FailOnMalformed aborts the whole load.
	FailOnMalformed
)

func (p MalformedPolicy) String() string {
	if p == FailOnMalformed {
		return "fail"
	}
	return "skip"
}

// ParseMalformedPolicy reads a policy name as written in the config file.
func ParseMalformedPolicy(name string) (MalformedPolicy, error) {
	switch name {
	case "skip":
		return SkipMalformed, nil
	case "fail":
		return FailOnMalformed, nil
	default:
		return SkipMalformed, fmt.Errorf("dataset: unknown malformed record policy %q", name)
	}
}
