package cst

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dhamidi/abnfcst/stream"
)

var (
	// ErrSyntax is wrapped by every SyntaxError.
	ErrSyntax = errors.New("syntax error")

	// ErrTooDeep is returned when named rules nest deeper than the
	// configured maximum depth.
	ErrTooDeep = errors.New("rule nesting too deep")
)

// SyntaxError describes the furthest point a parse reached before failing.
type SyntaxError struct {
	Pos      stream.Position
	Expected []string
	Found    string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	b.WriteString("syntax error at ")
	b.WriteString(e.Pos.String())
	if len(e.Expected) > 0 {
		b.WriteString(": expected ")
		b.WriteString(listJoin(e.Expected, ", ", "or"))
	}
	if e.Found != "" {
		b.WriteString(", found ")
		b.WriteString(e.Found)
	}
	return b.String()
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

func newSyntaxError(at stream.Stream, expected []string) *SyntaxError {
	found := "end of input"
	if r, ok := at.Current(); ok {
		found = strconv.QuoteRune(r)
	}
	return &SyntaxError{
		Pos:      at.Position(),
		Expected: expected,
		Found:    found,
	}
}

func listJoin(list []string, sep, lastSep string) string {
	switch len(list) {
	case 0:
		return ""
	case 1:
		return list[0]
	default:
		return strings.Join(list[:len(list)-1], sep) + " " + lastSep + " " + list[len(list)-1]
	}
}

// ContractViolation is the panic value raised when a node is realized,
// constructed or converted outside the phase discipline. It indicates
// broken wiring, never malformed input.
type ContractViolation struct {
	Op     string
	Rule   string
	Reason string
}

func (c *ContractViolation) Error() string {
	return fmt.Sprintf("cst: %s %s: %s", c.Op, c.Rule, c.Reason)
}

func violate(op, rule, reason string) {
	panic(&ContractViolation{Op: op, Rule: rule, Reason: reason})
}
