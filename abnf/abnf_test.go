package abnf

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/abnfcst/cst"
)

// coreABNF is RFC 5234 appendix B.1.
const coreABNF = `ALPHA          =  %x41-5A / %x61-7A   ; A-Z / a-z
BIT            =  "0" / "1"
CHAR           =  %x01-7F
                       ; any 7-bit US-ASCII character,
                       ;  excluding NUL
CR             =  %x0D
                       ; carriage return
CRLF           =  CR LF
                       ; Internet standard newline
CTL            =  %x00-1F / %x7F
                       ; controls
DIGIT          =  %x30-39
                       ; 0-9
DQUOTE         =  %x22
                       ; " (Double Quote)
HEXDIG         =  DIGIT / "A" / "B" / "C" / "D" / "E" / "F"
HTAB           =  %x09
                       ; horizontal tab
LF             =  %x0A
                       ; linefeed
LWSP           =  *(WSP / CRLF WSP)
OCTET          =  %x00-FF
                       ; 8 bits of data
SP             =  %x20
VCHAR          =  %x21-7E
                       ; visible (printing) characters
WSP            =  SP / HTAB
                       ; white space
`

// metaABNF is the text form of Metagrammar.
const metaABNF = `rulelist       =  1*( rule / (*c-wsp c-nl) )
rule           =  rulename defined-as elements c-nl
                       ; continues if next line starts
                       ;  with white space
rulename       =  ALPHA *(ALPHA / DIGIT / "-")
defined-as     =  *c-wsp ("=/" / "=") *c-wsp
elements       =  alternation *c-wsp
c-wsp          =  WSP / (c-nl WSP)
c-nl           =  comment / line-end
comment        =  ";" *(WSP / VCHAR / %x80-10FFFF) line-end
line-end       =  CRLF / LF
alternation    =  concatenation
                  *(*c-wsp "/" *c-wsp concatenation)
concatenation  =  repetition *(1*c-wsp repetition)
repetition     =  [repeat] element
repeat         =  (*DIGIT "*" *DIGIT) / 1*DIGIT
element        =  rulename / group / option /
                  char-val / num-val / prose-val
group          =  "(" *c-wsp alternation *c-wsp ")"
option         =  "[" *c-wsp alternation *c-wsp "]"
char-val       =  case-sensitive-string / case-insensitive-string
case-sensitive-string   =  "%s" quoted-string
case-insensitive-string =  [ "%i" ] quoted-string
quoted-string  =  DQUOTE *(%x20-21 / %x23-7E) DQUOTE
num-val        =  "%" (bin-val / dec-val / hex-val)
bin-val        =  "b" 1*BIT
                  [ 1*("." 1*BIT) / ("-" 1*BIT) ]
dec-val        =  "d" 1*DIGIT
                  [ 1*("." 1*DIGIT) / ("-" 1*DIGIT) ]
hex-val        =  "x" 1*HEXDIG
                  [ 1*("." 1*HEXDIG) / ("-" 1*HEXDIG) ]
prose-val      =  "<" *(%x20-3D / %x3F-7E) ">"
`

func TestCoreRoundTrip(t *testing.T) {
	g, err := ParseString("core.abnf", coreABNF)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if diff := cmp.Diff(Core().String(), g.String()); diff != "" {
		t.Errorf("core rules mismatch (-want +got):\n%s", diff)
	}
}

func TestMetagrammarParsesItself(t *testing.T) {
	g, err := ParseString("abnf.abnf", metaABNF)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if diff := cmp.Diff(Metagrammar().String(), g.String()); diff != "" {
		t.Fatalf("metagrammar mismatch (-want +got):\n%s", diff)
	}

	c, err := Compile(g)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	root, err := c.ParseString("rulelist", "abnf.abnf", metaABNF)
	if err != nil {
		t.Fatalf("parse with parsed metagrammar: %v", err)
	}
	if got, want := len(cst.Rules(root, "rule")), Metagrammar().Len(); got != want {
		t.Errorf("parsed %d rules, want %d", got, want)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"strings", `a = "x" / %s"Y"`, `a = "x" / %s"Y"`},
		{"insensitive prefix", `a = %i"ab"`, `a = "ab"`},
		{"hex concatenation", `a = %x41.42.43`, `a = %s"ABC"`},
		{"decimal range", `a = %d48-57`, `a = %x30-39`},
		{"binary", `a = %b1000001`, `a = %s"A"`},
		{"control characters", `a = %x0D.0A`, `a = %x0D.0A`},
		{"bounded repeat", `a = 2*4DIGIT`, `a = 2*4DIGIT`},
		{"exact repeat", `a = 3"x"`, `a = 3"x"`},
		{"star", `a = *c`, `a = *c`},
		{"repeat inside option", `a = [ 2DIGIT ]`, `a = [2DIGIT]`},
		{"option and group", `a = [ "+" ] 1*( DIGIT / "_" )`, `a = ["+"] 1*(DIGIT / "_")`},
		{"prose", `a = <free text>`, `a = <free text>`},
		{"incremental", "a = x\na =/ y / z", `a = x / y / z`},
		{"comments and continuation lines", `
; leading comment
a = "a"   ; trailing
    "b"
  / "c"

`, `a = "a" "b" / "c"`},
		{"crlf", "a = b\r\nb = \"x\"\r\n", "a = b\nb = \"x\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ParseString("test.abnf", tt.src)
			if err != nil {
				t.Fatalf("ParseString: %v", err)
			}
			if got := strings.TrimSuffix(g.String(), "\n"); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"redefinition", "a = \"x\"\nA = \"y\"\n", "test.abnf:2:1: rule A redefined"},
		{"undefined increment", "a =/ \"x\"\n", "incremental alternative for undefined rule a"},
		{"value too large", "a = %x110000\n", "value 110000 is not a character"},
		{"empty range", "a = %x39-30\n", "empty range %x39-30"},
		{"repeat bounds", "a = 3*2\"x\"\n", "max below min"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString("test.abnf", tt.src)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := ParseString("bad.abnf", "a = \"x\"\nb = \"unterminated\n")
	if !errors.Is(err, cst.ErrSyntax) {
		t.Fatalf("err = %v, want a syntax error", err)
	}
	var se *cst.SyntaxError
	if !errors.As(err, &se) || se.Pos.Line != 2 {
		t.Errorf("err = %v, want a syntax error on line 2", err)
	}
}

func TestEmptyInput(t *testing.T) {
	g, err := ParseString("empty.abnf", "  \n")
	if err != nil || g.Len() != 0 {
		t.Errorf("ParseString(blank) = %d rules, %v", g.Len(), err)
	}
}

func TestLoadAndCompile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "number.abnf")
	src := "number = [ \"-\" ] 1*DIGIT [ \".\" 1*DIGIT ]\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	g, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c, err := Compile(g)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	for _, in := range []string{"0", "-12", "3.25"} {
		root, err := c.ParseString("number", "", in)
		if err != nil {
			t.Errorf("Parse(%q): %v", in, err)
			continue
		}
		if root.Text() != in {
			t.Errorf("Parse(%q) covered %q", in, root.Text())
		}
	}
	if _, err := c.ParseString("number", "", "1."); err == nil {
		t.Error("Parse(1.) succeeded")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.abnf")); err == nil || !strings.Contains(err.Error(), "open grammar") {
		t.Errorf("Load(missing) err = %v", err)
	}
}
