// Package cst implements a lazy, memoizing, ordered-choice parsing engine
// that produces concrete syntax trees.
//
// # Overview
//
// Every rule is applied in two phases. Create wires a Deferred node: a
// suspended application that knows where its input comes from (an Upstream
// cell) but has not looked at it yet. Realize forces the node, which in turn
// forces exactly the upstream cells it needs, and caches the Result.
//
//	┌─────────────┐  Create   ┌─────────────┐  Realize  ┌─────────────┐
//	│  Upstream   │──────────▶│  Deferred   │──────────▶│   Result    │
//	│ (lazy cell) │           │ (lazy cell) │           │ node / rest │
//	└─────────────┘           └─────────────┘           └─────────────┘
//	                                 ▲                         │
//	                                 └────────── Defer ────────┘
//
// Wiring always terminates, because named rules (Definition) only wire their
// body when forced. Forcing touches every cell at most once, and named rules
// are additionally memoized per input position, so a rule reached from
// several alternatives at the same offset is parsed once.
//
// # Combinators
//
//	Terminal, Char, CharFold    one rune matching a predicate
//	Seq, Sequence               sub-rules in order; later ones are never
//	                            forced once an earlier one fails
//	Alt, OneOf                  ordered choice, first success commits
//	Range                       ordered choice over a contiguous run of
//	                            single-rune literals
//	Repetition, Optional,       ABNF repetition and the empty match
//	Epsilon
//	Define                      named, late-bound, memoized rule
//
// # Failure
//
// A failed Result never consumes input: its Remaining stream is the one the
// attempt started from. FailedAt reports how far the attempt got before it
// failed, and Parse turns the furthest failure of the whole input into a
// SyntaxError.
//
// Breaking the phase discipline (converting a node that was never realized,
// binding a Definition twice) is a programming error and panics with a
// *ContractViolation.
package cst
