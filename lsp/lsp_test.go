package lsp

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/abnfcst/abnf"
	"github.com/dhamidi/abnfcst/grammar"
)

func listGrammar(t *testing.T) *grammar.Compiled {
	t.Helper()
	g, err := abnf.ParseString("list.abnf", "list = item *( \",\" item ) *LF\nitem = 1*ALPHA\n")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	c, err := abnf.Compile(g)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return c
}

func TestDiagnoseValid(t *testing.T) {
	got := Diagnose(listGrammar(t), "list", "file:///a.txt", "a,b,c\n")
	if got == nil || len(got) != 0 {
		t.Errorf("Diagnose = %#v, want an empty slice", got)
	}
}

func TestDiagnoseRange(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  protocol.Range
		found string
	}{
		{"first line", "a,1", rangeAt(0, 2, 0, 3), "'1'"},
		{"second line", "ab\n,", rangeAt(1, 0, 1, 1), "','"},
		{"end of input", "a,", rangeAt(0, 2, 0, 2), "end of input"},
		{"astral plane", "a,😀", rangeAt(0, 2, 0, 4), "'😀'"},
		{"after astral plane", "😀", rangeAt(0, 0, 0, 2), "'😀'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diagnose(listGrammar(t), "list", "file:///a.txt", tt.text)
			if len(got) != 1 {
				t.Fatalf("got %d diagnostics, want 1", len(got))
			}
			if diff := cmp.Diff(tt.want, got[0].Range); diff != "" {
				t.Errorf("range mismatch (-want +got):\n%s", diff)
			}
			if want := "found " + tt.found; !containsSuffix(got[0].Message, want) {
				t.Errorf("message %q does not end with %q", got[0].Message, want)
			}
			if got[0].Severity == nil || *got[0].Severity != protocol.DiagnosticSeverityError {
				t.Errorf("severity = %v, want error", got[0].Severity)
			}
		})
	}
}

func TestDiagnoseMessage(t *testing.T) {
	got := Diagnose(listGrammar(t), "list", "file:///a.txt", "a;")
	want := `expected %x41-5A, %x61-7A, ",", %x0A or end of input, found ';'`
	if len(got) != 1 || got[0].Message != want {
		t.Errorf("Diagnose = %#v, want message %q", got, want)
	}
}

func TestDiagnoseUnknownStart(t *testing.T) {
	got := Diagnose(listGrammar(t), "nope", "file:///a.txt", "a")
	if len(got) != 1 || got[0].Range != (protocol.Range{}) {
		t.Errorf("Diagnose = %#v, want one diagnostic at the start", got)
	}
}

func TestURIToPath(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"file:///tmp/a%20b.txt", "/tmp/a b.txt"},
		{"file:///tmp/../x.txt", "/x.txt"},
		{"untitled:1", "untitled:1"},
	}
	for _, tt := range tests {
		got, err := uriToPath(tt.uri)
		if err != nil || got != tt.want {
			t.Errorf("uriToPath(%q) = %q, %v, want %q", tt.uri, got, err, tt.want)
		}
	}
}

func rangeAt(l1, c1, l2, c2 int) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(l1), Character: protocol.UInteger(c1)},
		End:   protocol.Position{Line: protocol.UInteger(l2), Character: protocol.UInteger(c2)},
	}
}

func containsSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}
