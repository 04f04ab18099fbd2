package omnisketch

import "fmt"

// ParameterError reports that New was called with accuracy parameters or a
// column count that cannot produce a valid sketch.
type ParameterError struct {
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("omnisketch: invalid parameter: %s", e.Reason)
}

// ShapeMismatchError reports that two sketches are not structurally
// compatible (Combine), or that a record does not carry the column count
// a sketch was built for (Add, Estimate).
type ShapeMismatchError struct {
	Reason string
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("omnisketch: shape mismatch: %s", e.Reason)
}

// ResourceLimitError reports that allocating a sketch of the requested
// shape would exceed the host's memory cap.
type ResourceLimitError struct {
	Reason string
}

func (e *ResourceLimitError) Error() string {
	return fmt.Sprintf("omnisketch: resource limit: %s", e.Reason)
}

// EnableInvariantChecks turns on the assert-class invariant checks:
// per-bucket count bounds, max-hash bookkeeping, sortedness preconditions,
// and the at-most-once duplicate-ID guard in Combine. These are
// implementation bugs, not user errors, so a failed check panics rather
// than returning an error. Off by default; individual tests turn it on and
// restore it afterwards.
var EnableInvariantChecks = false

func invariantViolation(format string, args ...any) {
	panic(fmt.Sprintf("omnisketch: invariant violation: "+format, args...))
}
