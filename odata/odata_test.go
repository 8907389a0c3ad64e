package odata

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/dhamidi/abnfcst/abnf"
	"github.com/dhamidi/abnfcst/cst"
	"github.com/dhamidi/abnfcst/grammar"
)

func TestGrammarIsConsistent(t *testing.T) {
	g, err := abnf.ParseString("odata.abnf", Source())
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if err := grammar.Verify(g.Merge(abnf.Core()), ""); err != nil {
		t.Errorf("Verify: %v", err)
	}
	reached := grammar.Reachable(g.Merge(abnf.Core()), "odataRelativeUri")
	for _, p := range g.Productions() {
		if !reached[strings.ToLower(p.Name)] {
			t.Errorf("rule %s is unreachable", p.Name)
		}
	}
}

func TestPrimitiveLiterals(t *testing.T) {
	tests := []struct {
		input string
		kind  string
	}{
		{"null", "nullValue"},
		{"true", "booleanValue"},
		{"FALSE", "booleanValue"},
		{"42", "decimalValue"},
		{"-3.5e10", "decimalValue"},
		{"INF", "decimalValue"},
		{"'it''s'", "string"},
		{"'caf%C3%A9'", "string"},
		{"01234567-89ab-cdef-0123-456789abcdef", "guidValue"},
		{"2024-01-05", "dateValue"},
		{"2024-01-05T10:30:00Z", "dateTimeOffsetValue"},
		{"2024-01-05T10:30:00.125+01:00", "dateTimeOffsetValue"},
		{"10:30", "timeOfDayValue"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root, err := ParseRule("primitiveLiteral", tt.input)
			if err != nil {
				t.Fatalf("ParseRule: %v", err)
			}
			if got := cst.RuleChildren(root)[0].Name(); got != tt.kind {
				t.Errorf("parsed as %s, want %s", got, tt.kind)
			}
		})
	}
}

func TestInvalidLiterals(t *testing.T) {
	for _, input := range []string{"2024-13-01", "'open", "1.", "nan", ""} {
		if _, err := ParseRule("primitiveLiteral", input); !errors.Is(err, cst.ErrSyntax) {
			t.Errorf("ParseRule(%q) err = %v, want syntax error", input, err)
		}
	}
}

func TestParseQuery(t *testing.T) {
	req, err := ParseQuery("$filter=Price lt 10 and contains(Name,'Milk')&$top=5&$orderby=Price desc,Name&debug=1&flag")
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}

	want := []QueryOption{
		{Name: "$filter", Value: "Price lt 10 and contains(Name,'Milk')", System: true},
		{Name: "$top", Value: "5", System: true},
		{Name: "$orderby", Value: "Price desc,Name", System: true},
		{Name: "debug", Value: "1"},
		{Name: "flag"},
	}
	if diff := cmp.Diff(want, req.Options, cmpopts.IgnoreFields(QueryOption{}, "Node")); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}

	filter, ok := req.Get("filter")
	if !ok {
		t.Fatal("Get(filter) found nothing")
	}
	var ops []string
	for _, op := range cst.Rules(filter.Node, "binaryOp") {
		ops = append(ops, op.Text())
	}
	if diff := cmp.Diff([]string{"lt", "and"}, ops); diff != "" {
		t.Errorf("operators mismatch (-want +got):\n%s", diff)
	}
	if call := cst.FirstRule(filter.Node, "methodName"); call == nil || call.Text() != "contains" {
		t.Errorf("method call = %v, want contains", call)
	}
	if _, ok := req.Get("$TOP"); !ok {
		t.Error("Get($TOP) found nothing")
	}
	if _, ok := req.Get("$skip"); ok {
		t.Error("Get($skip) found an option")
	}
}

func TestParseQueryNested(t *testing.T) {
	req, err := ParseQuery("$select=Name,Price&$expand=Orders($select=ID;$top=2)&$count=true")
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	expand, ok := req.Get("$expand")
	if !ok || expand.Value != "Orders($select=ID;$top=2)" {
		t.Fatalf("Get($expand) = %+v, %v", expand, ok)
	}
	if n := len(cst.Rules(expand.Node, "expandOption")); n != 2 {
		t.Errorf("expand has %d options, want 2", n)
	}
	var selected []string
	for _, item := range cst.Rules(req.Options[0].Node, "selectItem") {
		selected = append(selected, item.Text())
	}
	if diff := cmp.Diff([]string{"Name", "Price"}, selected); diff != "" {
		t.Errorf("select mismatch (-want +got):\n%s", diff)
	}
}

func TestParseQueryError(t *testing.T) {
	_, err := ParseQuery("$top=abc")
	var se *cst.SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *cst.SyntaxError", err)
	}
	if se.Pos.Line != 1 || se.Pos.Column != 6 {
		t.Errorf("error at %s, want 1:6", se.Pos)
	}
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		uri      string
		segments []Segment
		options  int
	}{
		{"Products", []Segment{{Name: "Products"}}, 0},
		{"Products(5)/Category?$select=Name", []Segment{{Name: "Products", Key: "5"}, {Name: "Category"}}, 1},
		{"Orders(OrderID=1,ProductID=2)", []Segment{{Name: "Orders", Key: "OrderID=1,ProductID=2"}}, 0},
		{"Customers('ALFKI')/Orders/$count", []Segment{{Name: "Customers", Key: "'ALFKI'"}, {Name: "Orders"}, {Name: "$count"}}, 0},
		{"People?$filter=not (Age ge 18)&$skip=10&$top=10", []Segment{{Name: "People"}}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			req, err := ParseURL(tt.uri)
			if err != nil {
				t.Fatalf("ParseURL: %v", err)
			}
			if diff := cmp.Diff(tt.segments, req.Segments); diff != "" {
				t.Errorf("segments mismatch (-want +got):\n%s", diff)
			}
			if len(req.Options) != tt.options {
				t.Errorf("got %d options, want %d", len(req.Options), tt.options)
			}
		})
	}
}

func TestParseRuleUnknownStart(t *testing.T) {
	if _, err := ParseRule("nope", "x"); !errors.Is(err, grammar.ErrUnknownRule) {
		t.Errorf("err = %v, want ErrUnknownRule", err)
	}
}
