// Package abnf reads grammars written in ABNF (RFC 5234, with the
// case-sensitive strings of RFC 7405).
//
// The ABNF text is parsed by the cst engine itself, using the grammar
// returned by Metagrammar, and the resulting syntax tree is walked into a
// grammar.Grammar.
package abnf

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/abnfcst/cst"
	"github.com/dhamidi/abnfcst/grammar"
)

var log = commonlog.GetLogger("abnfcst.abnf")

// Parse reads ABNF rules from src.
func Parse(filename string, src io.Reader) (*grammar.Grammar, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read grammar: %w", err)
	}
	return ParseString(filename, string(data))
}

// ParseString reads ABNF rules from text. A missing final line ending is
// tolerated.
func ParseString(filename, text string) (*grammar.Grammar, error) {
	if strings.TrimSpace(text) == "" {
		return grammar.New(), nil
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	root, err := metagrammar().ParseString("rulelist", filename, text)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	g, err := build(root)
	if err != nil {
		return nil, err
	}
	log.Debugf("read %d rules from %s", g.Len(), filename)
	return g, nil
}

// Load reads ABNF rules from a file.
func Load(filename string) (*grammar.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()
	return Parse(filename, f)
}

// Compile compiles g with the core rules filling in whatever g does not
// define itself.
func Compile(g *grammar.Grammar) (*grammar.Compiled, error) {
	return grammar.Compile(g.Merge(Core()))
}

func build(root *cst.RuleNode) (*grammar.Grammar, error) {
	g := grammar.New()
	for _, r := range cst.Rules(root, "rule") {
		name := cst.FirstRule(r, "rulename").Text()
		pos := r.Start().Position()
		expr, err := alternation(cst.FirstRule(r, "alternation"))
		if err != nil {
			return nil, err
		}
		if strings.Contains(cst.FirstRule(r, "defined-as").Text(), "=/") {
			err = g.Extend(name, expr, pos)
		} else {
			err = g.Add(&grammar.Production{Name: name, Expr: expr, Pos: pos})
		}
		if err != nil {
			return nil, err
		}
	}
	return g, nil
}

func named(rules []*cst.RuleNode, name string) []*cst.RuleNode {
	var out []*cst.RuleNode
	for _, r := range rules {
		if r.Name() == name {
			out = append(out, r)
		}
	}
	return out
}

func alternation(n *cst.RuleNode) (grammar.Expression, error) {
	var alts grammar.Alternative
	for _, c := range named(cst.RuleChildren(n), "concatenation") {
		e, err := concatenation(c)
		if err != nil {
			return nil, err
		}
		alts = append(alts, e)
	}
	if len(alts) == 1 {
		return alts[0], nil
	}
	return alts, nil
}

func concatenation(n *cst.RuleNode) (grammar.Expression, error) {
	var items grammar.Sequence
	for _, c := range named(cst.RuleChildren(n), "repetition") {
		e, err := repetition(c)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return items, nil
}

func repetition(n *cst.RuleNode) (grammar.Expression, error) {
	parts := cst.RuleChildren(n)
	e, err := element(named(parts, "element")[0])
	if err != nil {
		return nil, err
	}
	reps := named(parts, "repeat")
	if len(reps) == 0 {
		return e, nil
	}
	rep := reps[0]
	lo, hi, err := bounds(rep.Text())
	if err != nil {
		return nil, fail(rep, err.Error())
	}
	return grammar.Repeat{Min: lo, Max: hi, Body: e}, nil
}

// bounds parses "n", "*", "n*", "*m" or "n*m". An absent maximum is -1.
func bounds(text string) (int, int, error) {
	before, after, star := strings.Cut(text, "*")
	if !star {
		n, err := strconv.Atoi(text)
		return n, n, err
	}
	lo, hi := 0, -1
	var err error
	if before != "" {
		if lo, err = strconv.Atoi(before); err != nil {
			return 0, 0, err
		}
	}
	if after != "" {
		if hi, err = strconv.Atoi(after); err != nil {
			return 0, 0, err
		}
		if hi < lo {
			return 0, 0, fmt.Errorf("repetition %s has max below min", text)
		}
	}
	return lo, hi, nil
}

func element(n *cst.RuleNode) (grammar.Expression, error) {
	inner := cst.RuleChildren(n)[0]
	switch inner.Name() {
	case "rulename":
		return grammar.Ref{Name: inner.Text()}, nil
	case "group":
		return alternation(cst.FirstRule(inner, "alternation"))
	case "option":
		body, err := alternation(cst.FirstRule(inner, "alternation"))
		if err != nil {
			return nil, err
		}
		return grammar.Option{Body: body}, nil
	case "char-val":
		str := cst.RuleChildren(inner)[0]
		quoted := cst.FirstRule(str, "quoted-string").Text()
		return grammar.Literal{
			Text:          quoted[1 : len(quoted)-1],
			CaseSensitive: str.Name() == "case-sensitive-string",
		}, nil
	case "num-val":
		return numVal(cst.RuleChildren(inner)[0])
	case "prose-val":
		text := inner.Text()
		return grammar.Prose{Text: text[1 : len(text)-1]}, nil
	}
	return nil, fail(inner, "unexpected element "+inner.Name())
}

// numVal converts the text of a bin-val, dec-val or hex-val, such as
// "x41.42" or "d48-57".
func numVal(n *cst.RuleNode) (grammar.Expression, error) {
	text := n.Text()
	base := map[byte]int{'b': 2, 'd': 10, 'x': 16}[text[0]|0x20]
	digits := text[1:]

	parse := func(s string) (rune, error) {
		v, err := strconv.ParseUint(s, base, 32)
		if err != nil || v > 0x10FFFF {
			return 0, fail(n, fmt.Sprintf("value %s is not a character", s))
		}
		return rune(v), nil
	}

	if lo, hi, ok := strings.Cut(digits, "-"); ok {
		l, err := parse(lo)
		if err != nil {
			return nil, err
		}
		h, err := parse(hi)
		if err != nil {
			return nil, err
		}
		if h < l {
			return nil, fail(n, "empty range %"+text)
		}
		return grammar.Range{Lo: l, Hi: h}, nil
	}

	var runes []rune
	for _, part := range strings.Split(digits, ".") {
		r, err := parse(part)
		if err != nil {
			return nil, err
		}
		runes = append(runes, r)
	}
	return grammar.Literal{Text: string(runes), CaseSensitive: true}, nil
}

func fail(n cst.Node, msg string) error {
	return &grammar.Error{Pos: n.Start().Position(), Msg: msg}
}
