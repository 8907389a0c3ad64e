// Package format renders concrete syntax trees as JSON, as an indented
// tree, or one named rule per line.
package format

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dhamidi/abnfcst/cst"
	"github.com/dhamidi/abnfcst/stream"
)

type Encoder interface {
	Encode(n cst.Node) error
}

// Names lists the encoders New knows, default first.
var Names = []string{"tree", "json", "line"}

// New returns the encoder called name.
func New(name string, w io.Writer, opts ...Option) (Encoder, error) {
	switch name {
	case "tree":
		return NewTreeEncoder(w, opts...), nil
	case "json":
		return NewJSONEncoder(w, opts...), nil
	case "line":
		return NewLineEncoder(w, opts...), nil
	}
	return nil, fmt.Errorf("unknown format %q", name)
}

type Option func(*options)

type options struct {
	all bool
}

// AllNodes includes the anonymous sequence, choice, repetition and leaf
// nodes between named rules. By default only named rules are shown.
func AllNodes() Option {
	return func(o *options) { o.all = true }
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) children(n cst.Node) []cst.Node {
	if o.all {
		return n.Children()
	}
	rules := cst.RuleChildren(n)
	out := make([]cst.Node, len(rules))
	for i, r := range rules {
		out[i] = r
	}
	return out
}

// variant returns the alternative index of choice nodes.
func variant(n cst.Node) (int, bool) {
	switch n := n.(type) {
	case *cst.Choice:
		return n.Index, true
	case interface{ Index() int }:
		return n.Index(), true
	}
	return 0, false
}

func lineColumn(s stream.Stream) string {
	p := s.Position()
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}
