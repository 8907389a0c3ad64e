// Package grammar is the data model of a grammar: named productions over a
// small set of expressions, compiled into cst rules.
//
// Grammars can be written in ABNF (package abnf), in the EBNF dialect of
// golang.org/x/exp/ebnf (FromEBNF), as a YAML rule table (LoadYAML), or
// built directly in Go.
package grammar

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/dhamidi/abnfcst/stream"
)

// Expression is one of Literal, Range, Sequence, Alternative, Repeat,
// Option, Ref or Prose.
type Expression interface {
	String() string
	isExpression()
}

// Literal matches Text. Unless CaseSensitive is set, ASCII letters match
// either case, as in ABNF quoted strings.
type Literal struct {
	Text          string
	CaseSensitive bool
}

// Range matches one rune between Lo and Hi inclusive.
type Range struct {
	Lo, Hi rune
}

// Sequence matches its elements in order.
type Sequence []Expression

// Alternative matches the first element that matches.
type Alternative []Expression

// Repeat matches Body between Min and Max times. Max < 0 means unbounded.
type Repeat struct {
	Min, Max int
	Body     Expression
}

// Option matches Body or nothing.
type Option struct {
	Body Expression
}

// Ref refers to another production by name.
type Ref struct {
	Name string
}

// Prose is an ABNF prose value: a description in angle brackets that no
// parser can match.
type Prose struct {
	Text string
}

func (Literal) isExpression()     {}
func (Range) isExpression()       {}
func (Sequence) isExpression()    {}
func (Alternative) isExpression() {}
func (Repeat) isExpression()      {}
func (Option) isExpression()      {}
func (Ref) isExpression()         {}
func (Prose) isExpression()       {}

func (l Literal) String() string {
	printable := l.Text != ""
	for _, r := range l.Text {
		if r < 0x20 || r > 0x7e || r == '"' {
			printable = false
			break
		}
	}
	if l.Text == "" {
		return `""`
	}
	if !printable {
		parts := make([]string, 0, len(l.Text))
		for _, r := range l.Text {
			parts = append(parts, strings.ToUpper(strconv.FormatInt(int64(r), 16)))
		}
		return "%x" + padHex(parts)
	}
	if l.CaseSensitive && hasLetter(l.Text) {
		return `%s"` + l.Text + `"`
	}
	return `"` + l.Text + `"`
}

func padHex(parts []string) string {
	for i, p := range parts {
		if len(p) == 1 {
			parts[i] = "0" + p
		}
	}
	return strings.Join(parts, ".")
}

func hasLetter(s string) bool {
	for _, r := range s {
		if r <= unicode.MaxASCII && unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func (r Range) String() string {
	return fmt.Sprintf("%%x%02X-%02X", r.Lo, r.Hi)
}

func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, e := range s {
		parts[i] = group(e, true)
	}
	return strings.Join(parts, " ")
}

func (a Alternative) String() string {
	parts := make([]string, len(a))
	for i, e := range a {
		parts[i] = group(e, false)
	}
	return strings.Join(parts, " / ")
}

func (r Repeat) String() string {
	var prefix string
	switch {
	case r.Min == r.Max:
		prefix = strconv.Itoa(r.Min)
	case r.Max < 0 && r.Min == 0:
		prefix = "*"
	case r.Max < 0:
		prefix = strconv.Itoa(r.Min) + "*"
	case r.Min == 0:
		prefix = "*" + strconv.Itoa(r.Max)
	default:
		prefix = strconv.Itoa(r.Min) + "*" + strconv.Itoa(r.Max)
	}
	return prefix + group(r.Body, true)
}

func (o Option) String() string {
	return "[" + o.Body.String() + "]"
}

func (r Ref) String() string {
	return r.Name
}

func (p Prose) String() string {
	return "<" + p.Text + ">"
}

// group parenthesizes e where ABNF precedence requires it.
func group(e Expression, inSequence bool) string {
	switch e := e.(type) {
	case Alternative:
		if len(e) > 1 {
			return "(" + e.String() + ")"
		}
	case Sequence:
		if inSequence && len(e) > 1 {
			return "(" + e.String() + ")"
		}
	}
	return e.String()
}

// Production is a named rule.
type Production struct {
	Name string
	Expr Expression
	Pos  stream.Position
}

func (p *Production) String() string {
	return p.Name + " = " + p.Expr.String()
}

// Grammar is an ordered set of productions. Rule names are case
// insensitive, as in ABNF.
type Grammar struct {
	order []string
	prods map[string]*Production
}

// New returns an empty grammar.
func New() *Grammar {
	return &Grammar{prods: make(map[string]*Production)}
}

func key(name string) string {
	return strings.ToLower(name)
}

// Add defines a new production. Redefining a rule is an error.
func (g *Grammar) Add(p *Production) error {
	k := key(p.Name)
	if prev, ok := g.prods[k]; ok {
		return &Error{Pos: p.Pos, Msg: fmt.Sprintf("rule %s redefined (first defined at %s)", p.Name, prev.Pos)}
	}
	g.prods[k] = p
	g.order = append(g.order, k)
	return nil
}

// Extend adds alternatives to an existing production, as ABNF's "=/" does.
func (g *Grammar) Extend(name string, alt Expression, pos stream.Position) error {
	p, ok := g.prods[key(name)]
	if !ok {
		return &Error{Pos: pos, Msg: fmt.Sprintf("incremental alternative for undefined rule %s", name)}
	}
	existing, ok := p.Expr.(Alternative)
	if !ok {
		existing = Alternative{p.Expr}
	}
	if more, ok := alt.(Alternative); ok {
		p.Expr = append(existing, more...)
	} else {
		p.Expr = append(existing, alt)
	}
	return nil
}

// Get returns the production for name, or nil.
func (g *Grammar) Get(name string) *Production {
	return g.prods[key(name)]
}

// Has reports whether name is defined.
func (g *Grammar) Has(name string) bool {
	_, ok := g.prods[key(name)]
	return ok
}

// Len returns the number of productions.
func (g *Grammar) Len() int {
	return len(g.order)
}

// Productions returns the productions in definition order.
func (g *Grammar) Productions() []*Production {
	out := make([]*Production, len(g.order))
	for i, k := range g.order {
		out[i] = g.prods[k]
	}
	return out
}

// Merge returns a grammar holding g's productions followed by those of
// other that g does not define.
func (g *Grammar) Merge(other *Grammar) *Grammar {
	out := New()
	for _, p := range g.Productions() {
		cp := *p
		out.Add(&cp)
	}
	for _, p := range other.Productions() {
		if !out.Has(p.Name) {
			cp := *p
			out.Add(&cp)
		}
	}
	return out
}

func (g *Grammar) String() string {
	var b strings.Builder
	for _, p := range g.Productions() {
		b.WriteString(p.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Error is a problem with a grammar definition.
type Error struct {
	Pos stream.Position
	Msg string
}

func (e *Error) Error() string {
	if e.Pos.Line == 0 {
		return e.Msg
	}
	return e.Pos.String() + ": " + e.Msg
}
