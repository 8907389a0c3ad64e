package cst

import (
	"github.com/dhamidi/abnfcst/lazy"
	"github.com/dhamidi/abnfcst/stream"
)

// Definition is a named rule. Its body is bound after construction, so
// definitions can refer to themselves and to each other; wiring a
// Definition never wires its body, which is what keeps construction of
// recursive grammars finite.
//
// Applications are memoized per input position: however many call sites
// apply a Definition at the same offset, its body is realized once.
// A Definition re-entered at the offset it is already being realized at
// (left recursion) fails for the inner attempt.
type Definition struct {
	name string
	body Rule[Node]
}

// Define returns an unbound named rule.
func Define(name string) *Definition {
	return &Definition{name: name}
}

// Bind sets the body of the rule. Binding twice is a contract violation.
func (d *Definition) Bind(body Rule[Node]) {
	if d.body != nil {
		violate("bind", d.name, "rule is already bound")
	}
	d.body = body
}

// Bound reports whether Bind has been called.
func (d *Definition) Bound() bool {
	return d.body != nil
}

// Body returns the bound body, or nil.
func (d *Definition) Body() Rule[Node] {
	return d.body
}

func (d *Definition) Name() string {
	return d.name
}

func (d *Definition) Create(up Upstream) *Deferred[*RuleNode] {
	return newDeferred(d.name, up, d.apply)
}

func (d *Definition) apply(start stream.Stream) Result[*RuleNode] {
	cache := start.Source().Cache()
	if v, ok := cache.Lookup(d, start); ok {
		cell := v.(*lazy.Cell[Result[*RuleNode]])
		if cell.State() == lazy.Computing {
			return Failure[*RuleNode](start)
		}
		return cell.Value()
	}
	cell := lazy.New(func() Result[*RuleNode] {
		return d.realize(start)
	})
	cache.Store(d, start, cell)
	return cell.Value()
}

func (d *Definition) realize(start stream.Stream) Result[*RuleNode] {
	if d.body == nil {
		violate("realize", d.name, "rule has no body")
	}
	st := stateOf(start)
	if st.tooDeep {
		return Failure[*RuleNode](start)
	}
	if st.depth >= st.maxDepth {
		st.tooDeep = true
		return Failure[*RuleNode](start)
	}
	st.depth++
	r := d.body.Create(Begin(start)).Realize()
	st.depth--

	var out Result[*RuleNode]
	if r.ok {
		out = Success(&RuleNode{
			Base: NewBase(KindRule, d.name, start, r.remaining),
			Body: r.value,
		}, r.remaining)
	} else {
		out = FailureAt[*RuleNode](start, r.failedAt)
	}
	if st.trace != nil {
		st.trace(d.name, start, out.Outcome())
	}
	return out
}
