package cst

import (
	"strconv"

	"github.com/dhamidi/abnfcst/stream"
)

// Unbounded is the max argument for a repetition without an upper limit.
const Unbounded = -1

type repetition struct {
	name string
	min  int
	max  int
	item Rule[Node]
}

// Repetition matches item between min and max times, greedily. Items are
// wired one at a time as the repetition is forced, each starting where the
// previous one ended. A success that consumes nothing ends the repetition.
func Repetition(min, max int, item Rule[Node]) Rule[*Repeat] {
	if min < 0 || (max != Unbounded && max < min) {
		violate("create", item.Name(), "invalid repetition bounds")
	}
	return &repetition{
		name: repeatName(min, max, item.Name()),
		min:  min,
		max:  max,
		item: item,
	}
}

// Optional matches item zero or one time.
func Optional(item Rule[Node]) Rule[*Repeat] {
	r := Repetition(0, 1, item).(*repetition)
	r.name = "[" + item.Name() + "]"
	return r
}

func repeatName(min, max int, item string) string {
	switch {
	case min == 0 && max == Unbounded:
		return "*" + item
	case min == max:
		return strconv.Itoa(min) + item
	case max == Unbounded:
		return strconv.Itoa(min) + "*" + item
	case min == 0:
		return "*" + strconv.Itoa(max) + item
	}
	return strconv.Itoa(min) + "*" + strconv.Itoa(max) + item
}

func (r *repetition) Name() string {
	return r.name
}

func (r *repetition) Create(up Upstream) *Deferred[*Repeat] {
	return newDeferred(r.name, up, func(start stream.Stream) Result[*Repeat] {
		var items []Node
		cur := start
		furthest := start
		for r.max == Unbounded || len(items) < r.max {
			res := r.item.Create(Begin(cur)).Realize()
			if !res.ok {
				furthest = res.failedAt
				break
			}
			items = append(items, res.value)
			if res.remaining == cur {
				for len(items) < r.min {
					items = append(items, res.value)
				}
				break
			}
			cur = res.remaining
		}
		if len(items) < r.min {
			return FailureAt[*Repeat](start, furthest)
		}
		return Success(&Repeat{
			Base:  NewBase(KindRepeat, r.name, start, cur),
			Items: items,
		}, cur)
	})
}

type empty struct{}

// Epsilon matches without consuming input.
func Epsilon() Rule[*Empty] {
	return empty{}
}

func (empty) Name() string {
	return `""`
}

func (empty) Create(up Upstream) *Deferred[*Empty] {
	return newDeferred(`""`, up, func(start stream.Stream) Result[*Empty] {
		return Success(&Empty{Base: NewBase(KindEmpty, `""`, start, start)}, start)
	})
}
