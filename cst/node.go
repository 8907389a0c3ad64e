package cst

import "github.com/dhamidi/abnfcst/stream"

type Kind int

const (
	KindLeaf Kind = iota
	KindSequence
	KindChoice
	KindRepeat
	KindRule
	KindEmpty
)

var kindNames = [...]string{
	KindLeaf:     "Leaf",
	KindSequence: "Sequence",
	KindChoice:   "Choice",
	KindRepeat:   "Repeat",
	KindRule:     "Rule",
	KindEmpty:    "Empty",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Node is a realized, immutable CST fact for a successful rule application.
//
// Node types outside this package implement the unexported part of the
// interface by embedding Base.
type Node interface {
	Kind() Kind
	Name() string
	Start() stream.Stream
	End() stream.Stream
	Text() string
	Children() []Node
	base() *Base
}

// Base holds what every realized node has in common: the rule name, the
// span of input it covers, and a pointer back to the Deferred node that
// produced it.
type Base struct {
	kind   Kind
	name   string
	start  stream.Stream
	end    stream.Stream
	origin any
}

// NewBase returns a Base for a node of the given kind spanning start..end.
func NewBase(kind Kind, name string, start, end stream.Stream) Base {
	return Base{kind: kind, name: name, start: start, end: end}
}

func (b *Base) Kind() Kind           { return b.kind }
func (b *Base) Name() string         { return b.name }
func (b *Base) Start() stream.Stream { return b.start }
func (b *Base) End() stream.Stream   { return b.end }
func (b *Base) base() *Base          { return b }

// Text returns the input covered by the node.
func (b *Base) Text() string {
	return b.start.Text(b.end)
}

// Span returns the start and end positions of the node.
func (b *Base) Span() (stream.Position, stream.Position) {
	return b.start.Position(), b.end.Position()
}

// Leaf is a single matched rune.
type Leaf struct {
	Base
	Rune rune
}

func (n *Leaf) Children() []Node { return nil }

// Pair is the result of a typed two-element sequence.
type Pair[A, B Node] struct {
	Base
	First  A
	Second B
}

func (n *Pair[A, B]) Children() []Node { return []Node{n.First, n.Second} }

// List is the result of an n-ary sequence.
type List struct {
	Base
	Items []Node
}

func (n *List) Children() []Node { return n.Items }

// Choice is a closed tagged union: Variant is the node produced by the
// alternative at position Index.
type Choice struct {
	Base
	Index   int
	Variant Node
}

func (n *Choice) Children() []Node { return []Node{n.Variant} }

// Either is the result of a typed two-way alternation. Exactly one side is
// set; use MatchEither to handle both.
type Either[A, B Node] struct {
	Base
	left   A
	right  B
	isLeft bool
}

func (n *Either[A, B]) Children() []Node {
	if n.isLeft {
		return []Node{n.left}
	}
	return []Node{n.right}
}

// Left returns the first alternative's node, if it matched.
func (n *Either[A, B]) Left() (A, bool) { return n.left, n.isLeft }

// Right returns the second alternative's node, if it matched.
func (n *Either[A, B]) Right() (B, bool) { return n.right, !n.isLeft }

// Index returns 0 for the first alternative and 1 for the second.
func (n *Either[A, B]) Index() int {
	if n.isLeft {
		return 0
	}
	return 1
}

// MatchEither calls exactly one of onLeft or onRight.
func MatchEither[A, B Node, R any](n *Either[A, B], onLeft func(A) R, onRight func(B) R) R {
	if n.isLeft {
		return onLeft(n.left)
	}
	return onRight(n.right)
}

// Repeat holds the items matched by a repetition, in order.
type Repeat struct {
	Base
	Items []Node
}

func (n *Repeat) Children() []Node { return n.Items }

// RuleNode is the application of a named rule.
type RuleNode struct {
	Base
	Body Node
}

func (n *RuleNode) Children() []Node { return []Node{n.Body} }

// Empty matches no input.
type Empty struct {
	Base
}

func (n *Empty) Children() []Node { return nil }
