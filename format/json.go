package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/abnfcst/cst"
)

type JSONEncoder struct {
	w    io.Writer
	opts options
}

func NewJSONEncoder(w io.Writer, opts ...Option) *JSONEncoder {
	return &JSONEncoder{w: w, opts: newOptions(opts)}
}

func (e *JSONEncoder) Encode(n cst.Node) error {
	text, err := e.MarshalText(n)
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText(n cst.Node) ([]byte, error) {
	return json.MarshalIndent(e.node(n), "", "  ")
}

type jsonNode struct {
	Kind     string      `json:"kind"`
	Name     string      `json:"name,omitempty"`
	Span     jsonSpan    `json:"span"`
	Variant  *int        `json:"variant,omitempty"`
	Text     *string     `json:"text,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (e *JSONEncoder) node(n cst.Node) *jsonNode {
	start, end := n.Start().Position(), n.End().Position()
	jn := &jsonNode{
		Kind: n.Kind().String(),
		Name: n.Name(),
		Span: jsonSpan{
			Start: jsonPosition{Offset: start.Offset, Line: start.Line, Column: start.Column},
			End:   jsonPosition{Offset: end.Offset, Line: end.Line, Column: end.Column},
		},
	}
	if i, ok := variant(n); ok {
		jn.Variant = &i
	}

	children := e.opts.children(n)
	if len(children) == 0 {
		text := n.Text()
		jn.Text = &text
		return jn
	}
	jn.Children = make([]*jsonNode, len(children))
	for i, child := range children {
		jn.Children[i] = e.node(child)
	}
	return jn
}
