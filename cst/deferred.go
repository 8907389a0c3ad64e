package cst

import (
	"github.com/dhamidi/abnfcst/lazy"
	"github.com/dhamidi/abnfcst/stream"
)

// Upstream is the cell a rule application takes its starting position from.
type Upstream = *lazy.Cell[Outcome]

// Begin returns an already-computed upstream that starts at s.
func Begin(s stream.Stream) Upstream {
	return lazy.Of(Outcome{OK: true, Remaining: s, FailedAt: s})
}

// Rule is a grammar rule that can be applied to an upstream position.
type Rule[N Node] interface {
	Name() string
	Create(up Upstream) *Deferred[N]
}

// Deferred is a suspended rule application.
type Deferred[N Node] struct {
	rule     string
	upstream Upstream
	cell     *lazy.Cell[Result[N]]
}

// newDeferred wires a Deferred whose result is match applied to the
// upstream position. A failed upstream is propagated untouched and match
// is never called.
func newDeferred[N Node](name string, up Upstream, match func(start stream.Stream) Result[N]) *Deferred[N] {
	d := &Deferred[N]{rule: name, upstream: up}
	d.cell = lazy.New(func() Result[N] {
		o := up.Value()
		if !o.OK {
			return Result[N]{remaining: o.Remaining, failedAt: o.FailedAt}
		}
		r := match(o.Remaining)
		if r.ok {
			if b := r.value.base(); b.origin == nil {
				b.origin = d
			}
		}
		return r
	})
	return d
}

// Name returns the name of the rule being applied.
func (d *Deferred[N]) Name() string {
	return d.rule
}

// Upstream returns the cell this application starts from.
func (d *Deferred[N]) Upstream() Upstream {
	return d.upstream
}

// Realize forces the application and returns its memoized result.
func (d *Deferred[N]) Realize() Result[N] {
	return d.cell.Value()
}

// Realized reports whether Realize has completed.
func (d *Deferred[N]) Realized() bool {
	return d.cell.Forced()
}

// Convert returns the realized node. It is a contract violation to convert
// a Deferred that has not been realized or whose realization failed.
func (d *Deferred[N]) Convert() N {
	if !d.cell.Forced() {
		violate("convert", d.rule, "deferred node has not been realized")
	}
	r := d.cell.Value()
	if !r.ok {
		violate("convert", d.rule, "realization failed")
	}
	return r.value
}

// Outcome returns an unforced cell for this application's outcome, to be
// used as the upstream of the next rule in a sequence.
func (d *Deferred[N]) Outcome() Upstream {
	return lazy.Map(d.cell, Result[N].Outcome)
}

// Defer converts a realized node back into a Deferred node without parsing
// again. When n was produced by a Deferred of the same type, that exact
// Deferred is returned. A node keeps the first Deferred it is tied to, so
// deferring it under another type never detaches it from its producer.
func Defer[N Node](n N) *Deferred[N] {
	b := n.base()
	if d, ok := b.origin.(*Deferred[N]); ok {
		return d
	}
	d := &Deferred[N]{
		rule:     b.name,
		upstream: Begin(b.start),
		cell:     lazy.Of(Success(n, b.end)),
	}
	if b.origin == nil {
		b.origin = d
	}
	return d
}

// Erase returns r as a rule producing plain Nodes, so rules of different
// node types can be combined by the n-ary combinators.
func Erase[N Node](r Rule[N]) Rule[Node] {
	if e, ok := any(r).(Rule[Node]); ok {
		return e
	}
	return erased[N]{r}
}

type erased[N Node] struct {
	rule Rule[N]
}

func (e erased[N]) Name() string { return e.rule.Name() }

func (e erased[N]) Create(up Upstream) *Deferred[Node] {
	inner := e.rule.Create(up)
	return &Deferred[Node]{
		rule:     inner.rule,
		upstream: up,
		cell: lazy.Map(inner.cell, func(r Result[N]) Result[Node] {
			out := Result[Node]{ok: r.ok, remaining: r.remaining, failedAt: r.failedAt}
			if r.ok {
				out.value = r.value
			}
			return out
		}),
	}
}
