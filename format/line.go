package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/abnfcst/cst"
)

// LineEncoder writes one tab-separated line per node: the slash-joined
// names from the root, the span, and the quoted text. The output is meant
// for grep and cut.
type LineEncoder struct {
	w    io.Writer
	opts options
}

func NewLineEncoder(w io.Writer, opts ...Option) *LineEncoder {
	return &LineEncoder{w: w, opts: newOptions(opts)}
}

func (e *LineEncoder) Encode(n cst.Node) error {
	text, err := e.MarshalText(n)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText(n cst.Node) ([]byte, error) {
	var sb strings.Builder
	e.write(&sb, n, nil)
	return []byte(sb.String()), nil
}

func (e *LineEncoder) write(sb *strings.Builder, n cst.Node, path []string) {
	path = append(path, n.Name())
	fmt.Fprintf(sb, "%s\t%s-%s\t%s\n",
		strings.Join(path, "/"),
		lineColumn(n.Start()),
		lineColumn(n.End()),
		strconv.Quote(n.Text()),
	)
	for _, child := range e.opts.children(n) {
		e.write(sb, child, path)
	}
}
