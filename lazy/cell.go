// Package lazy provides a memoizing, compute-once cell.
//
// A Cell wraps a thunk. The first call to Value runs the thunk and caches
// its result; every later call returns the cached value. Map derives a new
// cell from an existing one without forcing either.
//
// Cells are not safe for concurrent use. A parse builds its own cells and
// forces them on one goroutine; share the finished values, not the cells
// still being computed.
package lazy

import "errors"

// ErrReentrant is the panic value raised when a cell is forced while its
// own thunk is still running.
var ErrReentrant = errors.New("lazy: cell forced while computing")

// State is the lifecycle stage of a Cell.
type State int

const (
	NotStarted State = iota
	Computing
	Computed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case Computing:
		return "Computing"
	case Computed:
		return "Computed"
	}
	return "State(?)"
}

// Cell is a value computed at most once, on first demand.
type Cell[T any] struct {
	thunk func() T
	value T
	state State
}

// New returns an unforced cell.
func New[T any](thunk func() T) *Cell[T] {
	return &Cell[T]{thunk: thunk}
}

// Of returns a cell that is already computed.
func Of[T any](v T) *Cell[T] {
	return &Cell[T]{value: v, state: Computed}
}

// Value forces the cell and returns its value.
func (c *Cell[T]) Value() T {
	switch c.state {
	case Computed:
		return c.value
	case Computing:
		panic(ErrReentrant)
	}
	c.state = Computing
	v := c.thunk()
	c.value = v
	c.thunk = nil
	c.state = Computed
	return v
}

// Forced reports whether the value has been computed.
func (c *Cell[T]) Forced() bool {
	return c.state == Computed
}

// State returns the cell's lifecycle stage.
func (c *Cell[T]) State() State {
	return c.state
}

// Map returns an unforced cell holding f applied to c's value.
// Neither c nor f runs until the returned cell is forced.
func Map[T, U any](c *Cell[T], f func(T) U) *Cell[U] {
	return New(func() U {
		return f(c.Value())
	})
}
