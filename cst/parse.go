package cst

import (
	"github.com/dhamidi/abnfcst/stream"
)

// DefaultMaxDepth bounds the nesting of named rules in one parse. Each level
// costs a few dozen stack frames; at this depth the goroutine stack stays
// well under Go's default limit.
const DefaultMaxDepth = 10000

// TraceFunc is called each time a named rule finishes realizing at a
// position. It is not called for memoized lookups.
type TraceFunc func(rule string, start stream.Stream, result Outcome)

type Option func(*config)

type config struct {
	maxDepth int
	trace    TraceFunc
}

// WithMaxDepth limits how deeply named rules may nest. Exceeding the limit
// fails the parse with ErrTooDeep.
func WithMaxDepth(n int) Option {
	return func(c *config) {
		c.maxDepth = n
	}
}

// WithTrace installs a hook observing every named rule realization.
func WithTrace(fn TraceFunc) Option {
	return func(c *config) {
		c.trace = fn
	}
}

// parseState is the per-input bookkeeping shared by all rules: nesting
// depth and the furthest failure seen.
type parseState struct {
	config
	depth    int
	tooDeep  bool
	furthest stream.Stream
	expected []string
}

type stateOwner struct{}

var stateKey = &stateOwner{}

func inputStart(s stream.Stream) stream.Stream {
	return s.Advance(-s.Offset())
}

// stateOf returns the parse state of s's input, creating a default one.
func stateOf(s stream.Stream) *parseState {
	cache := s.Source().Cache()
	origin := inputStart(s)
	if v, ok := cache.Lookup(stateKey, origin); ok {
		return v.(*parseState)
	}
	st := &parseState{
		config:   config{maxDepth: DefaultMaxDepth},
		furthest: origin,
	}
	cache.Store(stateKey, origin, st)
	return st
}

func configure(s stream.Stream, opts []Option) *parseState {
	// Memoized results do not replay the failures noted while computing
	// them, so every run starts from an empty cache.
	s.Source().Cache().Reset()
	st := stateOf(s)
	st.config = config{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&st.config)
	}
	st.depth = 0
	st.tooDeep = false
	st.furthest = inputStart(s)
	st.expected = nil
	return st
}

// noteFailure records that expected was wanted at at.
func noteFailure(at stream.Stream, expected string) {
	st := stateOf(at)
	switch {
	case st.furthest.Before(at):
		st.furthest = at
		st.expected = append(st.expected[:0], expected)
	case st.furthest == at:
		for _, e := range st.expected {
			if e == expected {
				return
			}
		}
		st.expected = append(st.expected, expected)
	}
}

// Furthest returns the furthest position any rule failed at in s's input,
// and the names of what was expected there.
func Furthest(s stream.Stream) (stream.Stream, []string) {
	st := stateOf(s)
	return st.furthest, append([]string(nil), st.expected...)
}

// Match applies rule at s and returns the raw result. Leftover input is not
// an error; callers check Remaining themselves. If named rules nest deeper
// than allowed, the result is a failure at s and the error is ErrTooDeep.
func Match[N Node](rule Rule[N], s stream.Stream, opts ...Option) (Result[N], error) {
	st := configure(s, opts)
	r := rule.Create(Begin(s)).Realize()
	if st.tooDeep {
		s.Source().Cache().Reset()
		return Failure[N](s), ErrTooDeep
	}
	return r, nil
}

// Parse applies rule to all of s. It fails with a *SyntaxError if the rule
// does not match or leaves input unconsumed, and with ErrTooDeep if named
// rules nest deeper than allowed.
func Parse[N Node](rule Rule[N], s stream.Stream, opts ...Option) (N, error) {
	var zero N
	st := configure(s, opts)
	r := rule.Create(Begin(s)).Realize()
	if st.tooDeep {
		// Results computed after the limit was hit are truncated failures.
		s.Source().Cache().Reset()
		return zero, ErrTooDeep
	}
	if !r.ok {
		return zero, newSyntaxError(st.furthest, append([]string(nil), st.expected...))
	}
	if !r.remaining.AtEnd() {
		if r.remaining.Before(st.furthest) || r.remaining == st.furthest {
			expected := append([]string(nil), st.expected...)
			if r.remaining == st.furthest {
				expected = append(expected, "end of input")
			}
			return zero, newSyntaxError(st.furthest, expected)
		}
		return zero, newSyntaxError(r.remaining, []string{"end of input"})
	}
	return r.value, nil
}
