package format

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/dhamidi/abnfcst/abnf"
	"github.com/dhamidi/abnfcst/cst"
)

const numberABNF = `number = [ sign ] 1*DIGIT
sign   = "+" / "-"
`

func parse(t *testing.T, start, input string) *cst.RuleNode {
	t.Helper()
	g, err := abnf.ParseString("number.abnf", numberABNF)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	c, err := abnf.Compile(g)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	root, err := c.ParseString(start, "input", input)
	if err != nil {
		t.Fatalf("Parse(%q): %v", input, err)
	}
	return root
}

func TestEncoders(t *testing.T) {
	gold := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))

	tests := []struct {
		name   string
		format string
		start  string
		input  string
		opts   []Option
	}{
		{"number_tree", "tree", "number", "-42", nil},
		{"number_json", "json", "number", "-42", nil},
		{"number_line", "line", "number", "-42", nil},
		{"sign_tree_all", "tree", "sign", "+", []Option{AllNodes()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			enc, err := New(tt.format, &buf, tt.opts...)
			if err != nil {
				t.Fatalf("New(%s): %v", tt.format, err)
			}
			if err := enc.Encode(parse(t, tt.start, tt.input)); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			gold.Assert(t, tt.name, buf.Bytes())
		})
	}
}

func TestUnknownFormat(t *testing.T) {
	if _, err := New("xml", &bytes.Buffer{}); err == nil || !strings.Contains(err.Error(), "xml") {
		t.Errorf("New(xml) err = %v", err)
	}
}

func TestAllNodesShowsEveryNode(t *testing.T) {
	root := parse(t, "number", "7")
	text, err := NewLineEncoder(nil, AllNodes()).MarshalText(root)
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	var count int
	cst.Walk(root, func(cst.Node) bool { count++; return true })
	if lines := strings.Count(string(text), "\n"); lines != count {
		t.Errorf("got %d lines for %d nodes", lines, count)
	}
}
