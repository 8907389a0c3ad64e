package grammar

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/scanner"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/abnfcst/stream"
)

// ParseEBNF reads a grammar in the EBNF notation of golang.org/x/exp/ebnf
// and converts it. Alternatives become ordered choices:
// the first one that matches wins, not the longest.
func ParseEBNF(filename string, src io.Reader) (*Grammar, error) {
	eg, err := ebnf.Parse(filename, src)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return FromEBNF(eg)
}

// LoadEBNF reads an EBNF grammar from a file.
func LoadEBNF(filename string) (*Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()
	return ParseEBNF(filename, f)
}

// FromEBNF converts a parsed EBNF grammar. Productions keep the order they
// were written in. EBNF literals are case sensitive.
func FromEBNF(eg ebnf.Grammar) (*Grammar, error) {
	prods := make([]*ebnf.Production, 0, len(eg))
	for _, p := range eg {
		prods = append(prods, p)
	}
	sort.Slice(prods, func(i, j int) bool {
		return prods[i].Name.Pos().Offset < prods[j].Name.Pos().Offset
	})

	g := New()
	for _, p := range prods {
		expr, err := fromEBNF(p.Expr)
		if err != nil {
			return nil, fmt.Errorf("%s: production %s: %w", p.Name.Pos(), p.Name.String, err)
		}
		err = g.Add(&Production{Name: p.Name.String, Expr: expr, Pos: position(p.Name.Pos())})
		if err != nil {
			return nil, err
		}
	}
	return g, nil
}

func position(p scanner.Position) stream.Position {
	return stream.Position{Filename: p.Filename, Offset: p.Offset, Line: p.Line, Column: p.Column}
}

func fromEBNF(expr ebnf.Expression) (Expression, error) {
	switch e := expr.(type) {
	case nil:
		return Literal{CaseSensitive: true}, nil

	case *ebnf.Token:
		return Literal{Text: e.String, CaseSensitive: true}, nil

	case *ebnf.Range:
		lo, err := single(e.Begin)
		if err != nil {
			return nil, err
		}
		hi, err := single(e.End)
		if err != nil {
			return nil, err
		}
		return Range{Lo: lo, Hi: hi}, nil

	case ebnf.Sequence:
		out := make(Sequence, len(e))
		for i, item := range e {
			x, err := fromEBNF(item)
			if err != nil {
				return nil, err
			}
			out[i] = x
		}
		return out, nil

	case ebnf.Alternative:
		out := make(Alternative, len(e))
		for i, alt := range e {
			x, err := fromEBNF(alt)
			if err != nil {
				return nil, err
			}
			out[i] = x
		}
		return out, nil

	case *ebnf.Repetition:
		body, err := fromEBNF(e.Body)
		if err != nil {
			return nil, err
		}
		return Repeat{Min: 0, Max: -1, Body: body}, nil

	case *ebnf.Option:
		body, err := fromEBNF(e.Body)
		if err != nil {
			return nil, err
		}
		return Option{Body: body}, nil

	case *ebnf.Group:
		return fromEBNF(e.Body)

	case *ebnf.Name:
		return Ref{Name: e.String}, nil

	case *ebnf.Bad:
		return nil, fmt.Errorf("bad expression: %s", e.Error)
	}
	return nil, fmt.Errorf("unsupported expression %T", expr)
}

func single(t *ebnf.Token) (rune, error) {
	r, size := utf8.DecodeRuneInString(t.String)
	if size == 0 || size != len(t.String) {
		return 0, fmt.Errorf("%s: range bound %q is not a single character", t.Pos(), t.String)
	}
	return r, nil
}
