package cst

import (
	"strings"

	"github.com/dhamidi/abnfcst/stream"
)

type oneOf struct {
	name     string
	variants []Rule[Node]
}

// OneOf is ordered choice. Every variant starts from the same upstream
// position; the first one that succeeds is committed to and the rest are
// never forced.
func OneOf(variants ...Rule[Node]) Rule[*Choice] {
	names := make([]string, len(variants))
	for i, v := range variants {
		names[i] = v.Name()
	}
	return &oneOf{
		name:     "(" + strings.Join(names, " / ") + ")",
		variants: variants,
	}
}

func (o *oneOf) Name() string {
	return o.name
}

func (o *oneOf) Create(up Upstream) *Deferred[*Choice] {
	attempts := make([]*Deferred[Node], len(o.variants))
	for i, v := range o.variants {
		attempts[i] = v.Create(up)
	}
	return newDeferred(o.name, up, func(start stream.Stream) Result[*Choice] {
		furthest := start
		for i, d := range attempts {
			r := d.Realize()
			if r.ok {
				return Success(&Choice{
					Base:    NewBase(KindChoice, o.name, start, r.remaining),
					Index:   i,
					Variant: r.value,
				}, r.remaining)
			}
			if furthest.Before(r.failedAt) {
				furthest = r.failedAt
			}
		}
		return FailureAt[*Choice](start, furthest)
	})
}

type alt[A, B Node] struct {
	name  string
	left  Rule[A]
	right Rule[B]
}

// Alt is a typed two-way ordered choice.
func Alt[A, B Node](left Rule[A], right Rule[B]) Rule[*Either[A, B]] {
	return &alt[A, B]{
		name:  "(" + left.Name() + " / " + right.Name() + ")",
		left:  left,
		right: right,
	}
}

func (a *alt[A, B]) Name() string {
	return a.name
}

func (a *alt[A, B]) Create(up Upstream) *Deferred[*Either[A, B]] {
	dl := a.left.Create(up)
	dr := a.right.Create(up)
	return newDeferred(a.name, up, func(start stream.Stream) Result[*Either[A, B]] {
		rl := dl.Realize()
		if rl.ok {
			return Success(&Either[A, B]{
				Base:   NewBase(KindChoice, a.name, start, rl.remaining),
				left:   rl.value,
				isLeft: true,
			}, rl.remaining)
		}
		rr := dr.Realize()
		if rr.ok {
			return Success(&Either[A, B]{
				Base:  NewBase(KindChoice, a.name, start, rr.remaining),
				right: rr.value,
			}, rr.remaining)
		}
		furthest := rl.failedAt
		if furthest.Before(rr.failedAt) {
			furthest = rr.failedAt
		}
		return FailureAt[*Either[A, B]](start, furthest)
	})
}

// RangeRule is ordered choice over the single-rune literals Lo through Hi.
// It behaves exactly like OneOf(Char(Lo), ..., Char(Hi)), with the
// matching variant found by arithmetic instead of trying each in turn.
type RangeRule struct {
	name string
	Lo   rune
	Hi   rune
}

// Range returns the contiguous-range alternation lo..hi.
// It panics if hi < lo.
func Range(lo, hi rune) *RangeRule {
	if hi < lo {
		violate("create", hexName(lo)+"-"+hexName(hi), "empty range")
	}
	return &RangeRule{
		name: hexName(lo) + "-" + strings.TrimPrefix(hexName(hi), "%x"),
		Lo:   lo,
		Hi:   hi,
	}
}

func (rr *RangeRule) Name() string {
	return rr.name
}

// Len returns the number of variants.
func (rr *RangeRule) Len() int {
	return int(rr.Hi-rr.Lo) + 1
}

// Variant returns the literal rule at index i.
func (rr *RangeRule) Variant(i int) Rule[*Leaf] {
	if i < 0 || i >= rr.Len() {
		violate("variant", rr.name, "index out of range")
	}
	return Char(rr.Lo + rune(i))
}

func (rr *RangeRule) Create(up Upstream) *Deferred[*Choice] {
	return newDeferred(rr.name, up, rr.match)
}

func (rr *RangeRule) match(start stream.Stream) Result[*Choice] {
	r, ok := start.Current()
	if !ok || r < rr.Lo || r > rr.Hi {
		noteFailure(start, rr.name)
		return Failure[*Choice](start)
	}
	next, _ := start.Next()
	leaf := &Leaf{Base: NewBase(KindLeaf, CharName(r), start, next), Rune: r}
	return Success(&Choice{
		Base:    NewBase(KindChoice, rr.name, start, next),
		Index:   int(r - rr.Lo),
		Variant: leaf,
	}, next)
}
