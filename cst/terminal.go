package cst

import (
	"fmt"
	"unicode"

	"github.com/dhamidi/abnfcst/stream"
)

type terminal struct {
	name string
	pred func(rune) bool
}

// Terminal returns a rule matching one rune for which pred is true.
// The name is used for the leaf node and in error messages.
func Terminal(name string, pred func(rune) bool) Rule[*Leaf] {
	return &terminal{name: name, pred: pred}
}

// Char matches exactly r.
func Char(r rune) Rule[*Leaf] {
	return &terminal{
		name: CharName(r),
		pred: func(c rune) bool { return c == r },
	}
}

// CharFold matches r ignoring ASCII case, as quoted ABNF strings do.
func CharFold(r rune) Rule[*Leaf] {
	if r > unicode.MaxASCII || !unicode.IsLetter(r) {
		return Char(r)
	}
	lower, upper := unicode.ToLower(r), unicode.ToUpper(r)
	return &terminal{
		name: CharName(lower),
		pred: func(c rune) bool { return c == lower || c == upper },
	}
}

func (t *terminal) Name() string {
	return t.name
}

func (t *terminal) Create(up Upstream) *Deferred[*Leaf] {
	return newDeferred(t.name, up, t.match)
}

func (t *terminal) match(start stream.Stream) Result[*Leaf] {
	r, ok := start.Current()
	if !ok || !t.pred(r) {
		noteFailure(start, t.name)
		return Failure[*Leaf](start)
	}
	next, _ := start.Next()
	return Success(&Leaf{Base: NewBase(KindLeaf, t.name, start, next), Rune: r}, next)
}

// CharName renders r the way ABNF writes a single character: quoted when
// printable, as a hex value otherwise.
func CharName(r rune) string {
	if r >= 0x20 && r <= 0x7e && r != '"' {
		return `"` + string(r) + `"`
	}
	return hexName(r)
}

func hexName(r rune) string {
	if r <= 0xff {
		return fmt.Sprintf("%%x%02X", r)
	}
	return fmt.Sprintf("%%x%X", r)
}
