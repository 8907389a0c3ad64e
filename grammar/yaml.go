package grammar

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/abnfcst/stream"
)

// A YAML rule table lists productions in order. Each expression is a
// mapping with exactly one of the keys below, or a bare string naming
// another rule:
//
//	rules:
//	  - name: number
//	    expr:
//	      seq:
//	        - opt: sign
//	        - repeat: {min: 1, body: digit}
//	  - name: sign
//	    expr: {alt: [{lit: "+"}, {lit: "-"}]}
//	  - name: digit
//	    expr: {range: {lo: 0x30, hi: 0x39}}
type yamlTable struct {
	Rules []yamlRule `yaml:"rules"`
}

type yamlRule struct {
	Name string   `yaml:"name"`
	Expr yamlExpr `yaml:"expr"`
	line int
}

type yamlExpr struct {
	Lit    *string     `yaml:"lit"`
	Case   bool        `yaml:"case"`
	Range  *yamlRange  `yaml:"range"`
	Seq    []yamlExpr  `yaml:"seq"`
	Alt    []yamlExpr  `yaml:"alt"`
	Repeat *yamlRepeat `yaml:"repeat"`
	Opt    *yamlExpr   `yaml:"opt"`
	Ref    string      `yaml:"ref"`
	Prose  string      `yaml:"prose"`
	line   int
}

type yamlRange struct {
	Lo rune `yaml:"lo"`
	Hi rune `yaml:"hi"`
}

type yamlRepeat struct {
	Min  int      `yaml:"min"`
	Max  *int     `yaml:"max"`
	Body yamlExpr `yaml:"body"`
}

func (r *yamlRule) UnmarshalYAML(value *yaml.Node) error {
	type plain yamlRule
	if err := value.Decode((*plain)(r)); err != nil {
		return err
	}
	r.line = value.Line
	return nil
}

func (e *yamlExpr) UnmarshalYAML(value *yaml.Node) error {
	e.line = value.Line
	if value.Kind == yaml.ScalarNode {
		e.Ref = value.Value
		return nil
	}
	type plain yamlExpr
	return value.Decode((*plain)(e))
}

// ParseYAML reads a YAML rule table.
func ParseYAML(filename string, src io.Reader) (*Grammar, error) {
	var table yamlTable
	dec := yaml.NewDecoder(src)
	dec.KnownFields(true)
	if err := dec.Decode(&table); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}

	g := New()
	for _, r := range table.Rules {
		pos := stream.Position{Filename: filename, Line: r.line, Column: 1}
		if r.Name == "" {
			return nil, &Error{Pos: pos, Msg: "rule without a name"}
		}
		expr, err := r.Expr.expression(filename)
		if err != nil {
			return nil, err
		}
		if err := g.Add(&Production{Name: r.Name, Expr: expr, Pos: pos}); err != nil {
			return nil, err
		}
	}
	log.Debugf("loaded %d rules from %s", g.Len(), filename)
	return g, nil
}

// LoadYAML reads a YAML rule table from a file.
func LoadYAML(filename string) (*Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()
	return ParseYAML(filename, f)
}

func (e *yamlExpr) expression(filename string) (Expression, error) {
	fail := func(msg string) error {
		return &Error{Pos: stream.Position{Filename: filename, Line: e.line, Column: 1}, Msg: msg}
	}

	set := 0
	for _, present := range []bool{e.Lit != nil, e.Range != nil, e.Seq != nil, e.Alt != nil, e.Repeat != nil, e.Opt != nil, e.Ref != "", e.Prose != ""} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, fail(fmt.Sprintf("expression needs exactly one of lit, range, seq, alt, repeat, opt, ref or prose; found %d", set))
	}

	switch {
	case e.Lit != nil:
		return Literal{Text: *e.Lit, CaseSensitive: e.Case}, nil
	case e.Range != nil:
		if e.Range.Hi < e.Range.Lo {
			return nil, fail(fmt.Sprintf("empty range %#x-%#x", e.Range.Lo, e.Range.Hi))
		}
		return Range{Lo: e.Range.Lo, Hi: e.Range.Hi}, nil
	case e.Seq != nil:
		items, err := expressions(e.Seq, filename)
		return Sequence(items), err
	case e.Alt != nil:
		items, err := expressions(e.Alt, filename)
		return Alternative(items), err
	case e.Repeat != nil:
		body, err := e.Repeat.Body.expression(filename)
		if err != nil {
			return nil, err
		}
		hi := -1
		if e.Repeat.Max != nil {
			hi = *e.Repeat.Max
		}
		if hi >= 0 && hi < e.Repeat.Min {
			return nil, fail("repetition max below min")
		}
		return Repeat{Min: e.Repeat.Min, Max: hi, Body: body}, nil
	case e.Opt != nil:
		body, err := e.Opt.expression(filename)
		if err != nil {
			return nil, err
		}
		return Option{Body: body}, nil
	case e.Ref != "":
		return Ref{Name: e.Ref}, nil
	}
	return Prose{Text: e.Prose}, nil
}

func expressions(in []yamlExpr, filename string) ([]Expression, error) {
	out := make([]Expression, len(in))
	for i := range in {
		x, err := in[i].expression(filename)
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}
