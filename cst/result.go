package cst

import "github.com/dhamidi/abnfcst/stream"

// Result is the outcome of realizing a rule application.
//
// A failed Result's Remaining is always the stream the attempt started
// from; FailedAt is where the failure was detected.
type Result[N any] struct {
	ok        bool
	value     N
	remaining stream.Stream
	failedAt  stream.Stream
}

// Success returns a successful result that leaves remaining unconsumed.
func Success[N any](value N, remaining stream.Stream) Result[N] {
	return Result[N]{ok: true, value: value, remaining: remaining, failedAt: remaining}
}

// Failure returns a failed result for an attempt that started at start.
func Failure[N any](start stream.Stream) Result[N] {
	return Result[N]{remaining: start, failedAt: start}
}

// FailureAt returns a failed result for an attempt that started at start and
// was rejected at at.
func FailureAt[N any](start, at stream.Stream) Result[N] {
	if at.Before(start) {
		at = start
	}
	return Result[N]{remaining: start, failedAt: at}
}

// Succeeded reports whether the attempt matched.
func (r Result[N]) Succeeded() bool {
	return r.ok
}

// Value returns the realized node and whether the attempt matched.
func (r Result[N]) Value() (N, bool) {
	return r.value, r.ok
}

// Remaining returns the input left after a success, or the start of the
// attempt after a failure.
func (r Result[N]) Remaining() stream.Stream {
	return r.remaining
}

// FailedAt returns the furthest position the failing attempt reached.
// For successful results it equals Remaining.
func (r Result[N]) FailedAt() stream.Stream {
	return r.failedAt
}

// Outcome drops the value, keeping what a downstream rule needs.
func (r Result[N]) Outcome() Outcome {
	return Outcome{OK: r.ok, Remaining: r.remaining, FailedAt: r.failedAt}
}

// Outcome is the untyped part of a Result: whether the upstream attempt
// matched and where the next rule starts.
type Outcome struct {
	OK        bool
	Remaining stream.Stream
	FailedAt  stream.Stream
}
