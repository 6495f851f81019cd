package format

import (
	"github.com/dhamidi/pyfront/python/parser"
)

// document is the shape shared by the JSON and YAML encoders.
type document struct {
	Root        *docNode        `json:"root" yaml:"root"`
	Diagnostics []docDiagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Ambiguities []docAmbiguity  `json:"ambiguities,omitempty" yaml:"ambiguities,omitempty"`
}

type docNode struct {
	Kind     string     `json:"kind" yaml:"kind"`
	Field    string     `json:"field,omitempty" yaml:"field,omitempty"`
	Span     docSpan    `json:"span" yaml:"span"`
	Text     string     `json:"text,omitempty" yaml:"text,omitempty"`
	Error    *docError  `json:"error,omitempty" yaml:"error,omitempty"`
	Children []*docNode `json:"children,omitempty" yaml:"children,omitempty"`
}

type docSpan struct {
	Start docPosition `json:"start" yaml:"start"`
	End   docPosition `json:"end" yaml:"end"`
}

type docPosition struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

type docError struct {
	Kind     string   `json:"kind" yaml:"kind"`
	Message  string   `json:"message" yaml:"message"`
	Expected []string `json:"expected,omitempty" yaml:"expected,omitempty"`
}

type docDiagnostic struct {
	docError `yaml:",inline"`
	Span     docSpan `json:"span" yaml:"span"`
}

type docAmbiguity struct {
	Rule         string   `json:"rule" yaml:"rule"`
	Span         docSpan  `json:"span" yaml:"span"`
	Alternatives []string `json:"alternatives" yaml:"alternatives"`
	Declared     bool     `json:"declared" yaml:"declared"`
}

type builder struct {
	tree      *parser.Tree
	anonymous bool
}

func buildDocument(tree *parser.Tree, anonymous bool) *document {
	b := builder{tree: tree, anonymous: anonymous}
	doc := &document{Root: b.node(tree.Root(), "", 0)}
	for _, d := range tree.Diagnostics() {
		doc.Diagnostics = append(doc.Diagnostics, docDiagnostic{
			docError: errorToDoc(&d.Error),
			Span:     b.span(d.Span.Start, d.Span.End),
		})
	}
	for _, a := range tree.Ambiguities() {
		doc.Ambiguities = append(doc.Ambiguities, docAmbiguity{
			Rule:         a.Rule,
			Span:         b.span(a.Span.Start, a.Span.End),
			Alternatives: a.Alternatives,
			Declared:     a.Declared,
		})
	}
	return doc
}

func (b *builder) node(n *parser.Node, field string, start int) *docNode {
	dn := &docNode{
		Kind:  n.Kind,
		Field: field,
		Span:  b.span(start, start+n.Length),
	}
	if n.IsLeaf() && !n.IsError() {
		dn.Text = string(b.tree.Source()[start : start+n.Length])
	}
	if n.Error != nil {
		e := errorToDoc(n.Error)
		dn.Error = &e
	}
	for _, c := range n.Children {
		if !c.Node.Named && !b.anonymous {
			continue
		}
		dn.Children = append(dn.Children, b.node(c.Node, c.Field, start+c.Offset))
	}
	return dn
}

func (b *builder) span(start, end int) docSpan {
	lines := b.tree.Lines()
	s, e := lines.Position(start), lines.Position(end)
	return docSpan{
		Start: docPosition{Offset: start, Line: s.Line, Column: s.Column},
		End:   docPosition{Offset: end, Line: e.Line, Column: e.Column},
	}
}

func errorToDoc(e *parser.Error) docError {
	return docError{Kind: e.Kind.String(), Message: e.Message, Expected: e.Expected}
}
