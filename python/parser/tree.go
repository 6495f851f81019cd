package parser

import (
	"strings"
)

// Tree is the result of parsing a source buffer. It is immutable; Reparse
// builds a new tree sharing unchanged subtrees with the old one.
type Tree struct {
	src         []byte
	root        *Node
	chunks      []chunk
	diagnostics []Diagnostic
	ambiguities []Ambiguity
	comments    []Token
	lines       *LineIndex
	cfg         config
}

func newTree(src []byte, chunks []chunk, cfg config) *Tree {
	t := &Tree{
		src:    src,
		chunks: chunks,
		lines:  NewLineIndex(src),
		cfg:    cfg,
	}
	root := &Node{Kind: KindModule, Named: true, Length: len(src)}
	for _, c := range chunks {
		root.Children = append(root.Children, c.children...)
		for _, d := range c.diagnostics {
			d.Start = t.lines.Position(d.Span.Start)
			d.End = t.lines.Position(d.Span.End)
			t.diagnostics = append(t.diagnostics, d)
		}
		t.ambiguities = append(t.ambiguities, c.ambiguities...)
		t.comments = append(t.comments, c.comments...)
	}
	t.root = root
	return t
}

func (t *Tree) Root() *Node { return t.root }

func (t *Tree) Source() []byte { return t.src }

// Diagnostics returns the lexical and syntax errors in source order.
func (t *Tree) Diagnostics() []Diagnostic { return t.diagnostics }

// Ambiguities returns the places where the choice between derivations fell
// to the order of alternatives.
func (t *Tree) Ambiguities() []Ambiguity { return t.ambiguities }

// Comments returns the comment tokens when the tree was parsed with
// WithComments.
func (t *Tree) Comments() []Token { return t.comments }

func (t *Tree) HasErrors() bool { return len(t.diagnostics) > 0 }

// Lines returns the line index of the source.
func (t *Tree) Lines() *LineIndex { return t.lines }

// String renders the tree as an S-expression of its named nodes.
func (t *Tree) String() string { return t.root.String() }

// StringWithPositions is like String with the byte range of every node.
func (t *Tree) StringWithPositions() string {
	var sb strings.Builder
	t.root.writeSExpr(&sb, "", 0)
	return sb.String()
}

// Walk visits the tree in document order. Children of a node are skipped
// when fn returns false for it.
func (t *Tree) Walk(fn func(c *Cursor) bool) {
	c := t.Cursor()
	for {
		if fn(c) && c.GotoFirstChild() {
			continue
		}
		for !c.GotoNextSibling() {
			if !c.GotoParent() {
				return
			}
		}
	}
}

// Cursor returns a cursor positioned at the root.
func (t *Tree) Cursor() *Cursor {
	return &Cursor{tree: t, stack: []frame{{node: t.root}}}
}

// NamedNodeAt returns a cursor at the deepest named node whose extent
// contains offset.
func (t *Tree) NamedNodeAt(offset int) *Cursor {
	c := t.Cursor()
	for {
		descended := false
		if c.GotoFirstChild() {
			for {
				if c.Node().Named && c.Start() <= offset && offset < c.End() {
					descended = true
					break
				}
				if !c.GotoNextSibling() {
					break
				}
			}
			if !descended {
				c.GotoParent()
			}
		}
		if !descended {
			return c
		}
	}
}

type frame struct {
	node  *Node
	start int
	field string
	index int
}

// Cursor walks a tree keeping track of absolute offsets and field names.
type Cursor struct {
	tree  *Tree
	stack []frame
}

func (c *Cursor) top() *frame { return &c.stack[len(c.stack)-1] }

func (c *Cursor) Node() *Node { return c.top().node }

// Field returns the field name of the current node in its parent.
func (c *Cursor) Field() string { return c.top().field }

func (c *Cursor) Start() int { return c.top().start }

func (c *Cursor) End() int { return c.top().start + c.top().node.Length }

func (c *Cursor) Span() Span { return Span{Start: c.Start(), End: c.End()} }

// Depth is 0 at the root.
func (c *Cursor) Depth() int { return len(c.stack) - 1 }

// Text returns the source text of the current node.
func (c *Cursor) Text() string { return string(c.tree.src[c.Start():c.End()]) }

// StartPosition returns the line and column of the current node's start.
func (c *Cursor) StartPosition() Position { return c.tree.lines.Position(c.Start()) }

func (c *Cursor) EndPosition() Position { return c.tree.lines.Position(c.End()) }

func (c *Cursor) GotoFirstChild() bool {
	f := c.top()
	if len(f.node.Children) == 0 {
		return false
	}
	ch := f.node.Children[0]
	c.stack = append(c.stack, frame{node: ch.Node, start: f.start + ch.Offset, field: ch.Field})
	return true
}

func (c *Cursor) GotoNextSibling() bool {
	if len(c.stack) < 2 {
		return false
	}
	parent := c.stack[len(c.stack)-2]
	f := c.top()
	next := f.index + 1
	if next >= len(parent.node.Children) {
		return false
	}
	ch := parent.node.Children[next]
	*f = frame{node: ch.Node, start: parent.start + ch.Offset, field: ch.Field, index: next}
	return true
}

func (c *Cursor) GotoParent() bool {
	if len(c.stack) < 2 {
		return false
	}
	c.stack = c.stack[:len(c.stack)-1]
	return true
}

// Copy returns an independent cursor at the same position.
func (c *Cursor) Copy() *Cursor {
	return &Cursor{tree: c.tree, stack: append([]frame(nil), c.stack...)}
}
