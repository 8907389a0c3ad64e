package format

import (
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/abnfcst/cst"
)

// TreeEncoder writes one node per line, indented by depth:
//
//	number 1:1-1:4
//	  sign 1:1-1:2 "-"
//	  DIGIT 1:2-1:3 "4"
//
// Nodes without children shown end with their quoted text.
type TreeEncoder struct {
	w    io.Writer
	opts options
}

func NewTreeEncoder(w io.Writer, opts ...Option) *TreeEncoder {
	return &TreeEncoder{w: w, opts: newOptions(opts)}
}

func (e *TreeEncoder) Encode(n cst.Node) error {
	text, err := e.MarshalText(n)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText(n cst.Node) ([]byte, error) {
	var sb strings.Builder
	e.write(&sb, n, 0)
	return []byte(sb.String()), nil
}

func (e *TreeEncoder) write(sb *strings.Builder, n cst.Node, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	if n.Kind() != cst.KindRule {
		sb.WriteString(n.Kind().String())
		sb.WriteByte(' ')
	}
	sb.WriteString(n.Name())
	if i, ok := variant(n); ok {
		sb.WriteString(" #")
		sb.WriteString(strconv.Itoa(i))
	}
	sb.WriteByte(' ')
	sb.WriteString(lineColumn(n.Start()))
	sb.WriteByte('-')
	sb.WriteString(lineColumn(n.End()))

	children := e.opts.children(n)
	if len(children) == 0 {
		sb.WriteByte(' ')
		sb.WriteString(strconv.Quote(n.Text()))
	}
	sb.WriteByte('\n')
	for _, child := range children {
		e.write(sb, child, depth+1)
	}
}
