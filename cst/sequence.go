package cst

import (
	"strings"

	"github.com/dhamidi/abnfcst/stream"
)

type seq[A, B Node] struct {
	name   string
	first  Rule[A]
	second Rule[B]
}

// Seq matches first and then second. second is created from first's
// outcome but only forced if first succeeds.
func Seq[A, B Node](first Rule[A], second Rule[B]) Rule[*Pair[A, B]] {
	return &seq[A, B]{
		name:   first.Name() + " " + second.Name(),
		first:  first,
		second: second,
	}
}

func (s *seq[A, B]) Name() string {
	return s.name
}

func (s *seq[A, B]) Create(up Upstream) *Deferred[*Pair[A, B]] {
	d1 := s.first.Create(up)
	d2 := s.second.Create(d1.Outcome())
	return newDeferred(s.name, up, func(start stream.Stream) Result[*Pair[A, B]] {
		r1 := d1.Realize()
		if !r1.ok {
			return FailureAt[*Pair[A, B]](start, r1.failedAt)
		}
		r2 := d2.Realize()
		if !r2.ok {
			return FailureAt[*Pair[A, B]](start, r2.failedAt)
		}
		return Success(&Pair[A, B]{
			Base:   NewBase(KindSequence, s.name, start, r2.remaining),
			First:  r1.value,
			Second: r2.value,
		}, r2.remaining)
	})
}

type sequence struct {
	name  string
	rules []Rule[Node]
}

// Sequence matches rules one after another. Each rule is forced only if
// every rule before it succeeded.
func Sequence(rules ...Rule[Node]) Rule[*List] {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name()
	}
	return &sequence{
		name:  "(" + strings.Join(names, " ") + ")",
		rules: rules,
	}
}

func (s *sequence) Name() string {
	return s.name
}

func (s *sequence) Create(up Upstream) *Deferred[*List] {
	parts := make([]*Deferred[Node], len(s.rules))
	prev := up
	for i, r := range s.rules {
		parts[i] = r.Create(prev)
		prev = parts[i].Outcome()
	}
	return newDeferred(s.name, up, func(start stream.Stream) Result[*List] {
		items := make([]Node, 0, len(parts))
		end := start
		for _, d := range parts {
			r := d.Realize()
			if !r.ok {
				return FailureAt[*List](start, r.failedAt)
			}
			items = append(items, r.value)
			end = r.remaining
		}
		return Success(&List{
			Base:  NewBase(KindSequence, s.name, start, end),
			Items: items,
		}, end)
	})
}
