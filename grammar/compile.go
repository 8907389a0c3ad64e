package grammar

import (
	"errors"
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/abnfcst/cst"
	"github.com/dhamidi/abnfcst/stream"
)

var log = commonlog.GetLogger("abnfcst.grammar")

// Compiled is a grammar turned into cst rules. It holds no per-parse state
// and may be shared between goroutines; every parse gets its own input,
// cache and cells.
type Compiled struct {
	grammar *Grammar
	defs    map[string]*cst.Definition
}

// Compile builds one cst.Definition per production and binds their bodies.
// References to undefined rules are reported together.
func Compile(g *Grammar) (*Compiled, error) {
	c := &Compiled{
		grammar: g,
		defs:    make(map[string]*cst.Definition, g.Len()),
	}
	for _, p := range g.Productions() {
		c.defs[key(p.Name)] = cst.Define(p.Name)
	}

	var errs []error
	for _, p := range g.Productions() {
		body, err := c.compile(p.Expr)
		if err != nil {
			errs = append(errs, fmt.Errorf("rule %s: %w", p.Name, err))
			continue
		}
		c.defs[key(p.Name)].Bind(body)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	log.Debugf("compiled %d rules", g.Len())
	return c, nil
}

// MustCompile is like Compile but panics on error. It is meant for
// grammars built into the program.
func MustCompile(g *Grammar) *Compiled {
	c, err := Compile(g)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Compiled) compile(e Expression) (cst.Rule[cst.Node], error) {
	switch e := e.(type) {
	case Literal:
		return compileLiteral(e), nil
	case Range:
		if e.Hi < e.Lo {
			return nil, fmt.Errorf("empty range %s", e)
		}
		return cst.Erase[*cst.Choice](cst.Range(e.Lo, e.Hi)), nil
	case Sequence:
		if len(e) == 1 {
			return c.compile(e[0])
		}
		parts, err := c.compileAll(e)
		if err != nil {
			return nil, err
		}
		return cst.Erase(cst.Sequence(parts...)), nil
	case Alternative:
		if len(e) == 1 {
			return c.compile(e[0])
		}
		variants, err := c.compileAll(e)
		if err != nil {
			return nil, err
		}
		return cst.Erase(cst.OneOf(variants...)), nil
	case Repeat:
		if e.Max >= 0 && e.Max < e.Min {
			return nil, fmt.Errorf("repetition %s has max below min", e)
		}
		body, err := c.compile(e.Body)
		if err != nil {
			return nil, err
		}
		hi := e.Max
		if hi < 0 {
			hi = cst.Unbounded
		}
		return cst.Erase(cst.Repetition(e.Min, hi, body)), nil
	case Option:
		body, err := c.compile(e.Body)
		if err != nil {
			return nil, err
		}
		return cst.Erase(cst.Optional(body)), nil
	case Ref:
		d, ok := c.defs[key(e.Name)]
		if !ok {
			return nil, fmt.Errorf("undefined rule %s", e.Name)
		}
		return cst.Erase[*cst.RuleNode](d), nil
	case Prose:
		return cst.Erase(cst.Terminal(e.String(), func(rune) bool { return false })), nil
	case nil:
		return cst.Erase(cst.Epsilon()), nil
	}
	return nil, fmt.Errorf("unsupported expression %T", e)
}

// compileAll compiles every element and joins the errors of all of them.
func (c *Compiled) compileAll(es []Expression) ([]cst.Rule[cst.Node], error) {
	out := make([]cst.Rule[cst.Node], 0, len(es))
	var errs []error
	for _, e := range es {
		r, err := c.compile(e)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, r)
	}
	return out, errors.Join(errs...)
}

func compileLiteral(l Literal) cst.Rule[cst.Node] {
	char := cst.CharFold
	if l.CaseSensitive {
		char = cst.Char
	}
	runes := []rune(l.Text)
	switch len(runes) {
	case 0:
		return cst.Erase(cst.Epsilon())
	case 1:
		return cst.Erase(char(runes[0]))
	}
	parts := make([]cst.Rule[cst.Node], len(runes))
	for i, r := range runes {
		parts[i] = cst.Erase(char(r))
	}
	return cst.Erase(cst.Sequence(parts...))
}

// Grammar returns the grammar c was compiled from.
func (c *Compiled) Grammar() *Grammar {
	return c.grammar
}

// Rule returns the compiled rule for name.
func (c *Compiled) Rule(name string) (*cst.Definition, bool) {
	d, ok := c.defs[key(name)]
	return d, ok
}

// Names returns the rule names in definition order.
func (c *Compiled) Names() []string {
	out := make([]string, 0, len(c.defs))
	for _, p := range c.grammar.Productions() {
		out = append(out, p.Name)
	}
	return out
}

func (c *Compiled) start(name string) (*cst.Definition, error) {
	d, ok := c.Rule(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRule, name)
	}
	return d, nil
}

// ErrUnknownRule is returned when a parse names a start rule the grammar
// does not define.
var ErrUnknownRule = errors.New("unknown rule")

// Parse parses all of s with the named start rule.
func (c *Compiled) Parse(start string, s stream.Stream, opts ...cst.Option) (*cst.RuleNode, error) {
	d, err := c.start(start)
	if err != nil {
		return nil, err
	}
	log.Debugf("parse %s: %d runes from %s", d.Name(), s.Len(), s.Source().Filename())
	return cst.Parse[*cst.RuleNode](d, s, opts...)
}

// ParseString parses text with the named start rule.
func (c *Compiled) ParseString(start, filename, text string, opts ...cst.Option) (*cst.RuleNode, error) {
	return c.Parse(start, stream.New(filename, text), opts...)
}

// Match applies the named start rule at s without requiring it to consume
// all input.
func (c *Compiled) Match(start string, s stream.Stream, opts ...cst.Option) (cst.Result[*cst.RuleNode], error) {
	d, err := c.start(start)
	if err != nil {
		return cst.Failure[*cst.RuleNode](s), err
	}
	return cst.Match[*cst.RuleNode](d, s, opts...)
}
