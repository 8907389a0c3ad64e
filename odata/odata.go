// Package odata parses OData request URLs with a grammar written in ABNF.
//
// The grammar covers resource paths with key predicates, the system query
// options and the common expression syntax used by $filter and $orderby.
// Parsing yields a concrete syntax tree; Request offers a flattened view
// of the parts most callers need.
package odata

import (
	_ "embed"
	"strings"
	"sync"

	"github.com/dhamidi/abnfcst/abnf"
	"github.com/dhamidi/abnfcst/cst"
	"github.com/dhamidi/abnfcst/grammar"
)

//go:embed odata.abnf
var source string

// Source returns the ABNF text of the grammar.
func Source() string {
	return source
}

var compiled = sync.OnceValues(func() (*grammar.Compiled, error) {
	g, err := abnf.ParseString("odata.abnf", source)
	if err != nil {
		return nil, err
	}
	return abnf.Compile(g)
})

// Grammar returns the compiled grammar. It is built on first use and
// shared afterwards.
func Grammar() (*grammar.Compiled, error) {
	return compiled()
}

// ParseRule parses all of text as the named rule.
func ParseRule(start, text string, opts ...cst.Option) (*cst.RuleNode, error) {
	c, err := Grammar()
	if err != nil {
		return nil, err
	}
	return c.ParseString(start, "", text, opts...)
}

// Request is a parsed resource path and query.
type Request struct {
	Root     *cst.RuleNode
	Segments []Segment
	Options  []QueryOption
}

// Segment is one step of a resource path. Key holds the text of the key
// predicate without its parentheses.
type Segment struct {
	Name string
	Key  string
}

// QueryOption is one name=value pair of the query.
type QueryOption struct {
	Name   string
	Value  string
	System bool
	Node   *cst.RuleNode
}

// ParseURL parses a URL relative to the service root, such as
// "Products(1)/Category?$select=Name".
func ParseURL(uri string, opts ...cst.Option) (*Request, error) {
	root, err := ParseRule("odataRelativeUri", uri, opts...)
	if err != nil {
		return nil, err
	}
	return newRequest(root), nil
}

// ParseQuery parses the query part of a URL, without the leading "?".
func ParseQuery(query string, opts ...cst.Option) (*Request, error) {
	root, err := ParseRule("queryOptions", query, opts...)
	if err != nil {
		return nil, err
	}
	return newRequest(root), nil
}

// Get returns the first option with the given name. System options match
// with or without their "$" prefix, in any case.
func (r *Request) Get(name string) (QueryOption, bool) {
	want := strings.ToLower(strings.TrimPrefix(name, "$"))
	for _, o := range r.Options {
		got := o.Name
		if o.System {
			got = strings.ToLower(strings.TrimPrefix(got, "$"))
		}
		if got == want || o.Name == name {
			return o, true
		}
	}
	return QueryOption{}, false
}

func newRequest(root *cst.RuleNode) *Request {
	req := &Request{Root: root}
	for _, seg := range cst.Rules(root, "segment") {
		req.Segments = append(req.Segments, segment(seg))
	}
	for _, opt := range cst.Rules(root, "queryOption") {
		inner := cst.RuleChildren(opt)[0]
		name, value, _ := strings.Cut(opt.Text(), "=")
		req.Options = append(req.Options, QueryOption{
			Name:   name,
			Value:  value,
			System: inner.Name() == "systemQueryOption",
			Node:   opt,
		})
	}
	return req
}

func segment(seg *cst.RuleNode) Segment {
	inner := cst.RuleChildren(seg)[0]
	if inner.Name() != "entitySegment" {
		return Segment{Name: inner.Text()}
	}
	s := Segment{Name: cst.FirstRule(inner, "odataIdentifier").Text()}
	if kp := cst.FirstRule(inner, "keyPredicate"); kp != nil {
		parts := cst.RuleChildren(cst.RuleChildren(kp)[0])
		open, closing := parts[0], parts[len(parts)-1]
		s.Key = open.End().Text(closing.Start())
	}
	return s
}
