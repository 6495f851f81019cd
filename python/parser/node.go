package parser

import (
	"fmt"
	"strings"
)

// ErrorKind classifies diagnostics and error nodes.
type ErrorKind int

const (
	LexicalError ErrorKind = iota
	SyntaxError
	// AmbiguityExhausted is a syntax error at a point where a declared
	// conflict left more than one interpretation open and none completed.
	AmbiguityExhausted
)

var errorKindNames = map[ErrorKind]string{
	LexicalError:       "LexicalError",
	SyntaxError:        "SyntaxError",
	AmbiguityExhausted: "AmbiguityExhausted",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Error describes why an ERROR node exists.
type Error struct {
	Kind     ErrorKind
	Message  string
	Expected []string
}

func (e *Error) Error() string {
	if len(e.Expected) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s, expected %s", e.Message, strings.Join(e.Expected, ", "))
}

// KindError is the kind of nodes wrapping unparsed input.
const KindError = "ERROR"

// Node is an immutable syntax tree node. Nodes carry no absolute position:
// a child's offset is stored relative to its parent, so a subtree can be
// shared between trees whose text differs before it.
type Node struct {
	Kind string
	// Named is false for anonymous leaves such as keywords and punctuation.
	Named    bool
	Length   int
	Children []Child
	Error    *Error
}

// Child is an edge from a parent to one of its children.
type Child struct {
	Field  string
	Offset int
	Node   *Node
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// HasError reports whether n or any descendant is an ERROR node.
func (n *Node) HasError() bool {
	if n.IsError() {
		return true
	}
	for _, c := range n.Children {
		if c.Node.HasError() {
			return true
		}
	}
	return false
}

// ChildByField returns the first child labelled with field.
func (n *Node) ChildByField(field string) *Node {
	for _, c := range n.Children {
		if c.Field == field {
			return c.Node
		}
	}
	return nil
}

// ChildrenByField returns every child labelled with field.
func (n *Node) ChildrenByField(field string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Field == field {
			out = append(out, c.Node)
		}
	}
	return out
}

func (n *Node) FirstChildOfKind(kind string) *Node {
	for _, c := range n.Children {
		if c.Node.Kind == kind {
			return c.Node
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Node.Kind == kind {
			out = append(out, c.Node)
		}
	}
	return out
}

// NamedChildren returns the children that are not anonymous leaves.
func (n *Node) NamedChildren() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Node.Named {
			out = append(out, c.Node)
		}
	}
	return out
}

// String renders the named structure of n as an S-expression, with field
// labels, e.g. (if_statement condition: (identifier) body: (pass_statement)).
func (n *Node) String() string {
	var sb strings.Builder
	n.writeSExpr(&sb, "", -1)
	return sb.String()
}

func (n *Node) writeSExpr(sb *strings.Builder, field string, start int) {
	if field != "" {
		sb.WriteString(field)
		sb.WriteString(": ")
	}
	sb.WriteByte('(')
	sb.WriteString(n.Kind)
	if start >= 0 {
		fmt.Fprintf(sb, " [%d-%d]", start, start+n.Length)
	}
	for _, c := range n.Children {
		if !c.Node.Named {
			continue
		}
		sb.WriteByte(' ')
		childStart := -1
		if start >= 0 {
			childStart = start + c.Offset
		}
		c.Node.writeSExpr(sb, c.Field, childStart)
	}
	sb.WriteByte(')')
}

// Equal reports whether two subtrees have the same shape, kinds, fields,
// lengths, offsets and errors.
func (n *Node) Equal(o *Node) bool {
	if n == o {
		return true
	}
	if n == nil || o == nil {
		return false
	}
	if n.Kind != o.Kind || n.Named != o.Named || n.Length != o.Length || len(n.Children) != len(o.Children) {
		return false
	}
	if (n.Error == nil) != (o.Error == nil) {
		return false
	}
	if n.Error != nil && (n.Error.Kind != o.Error.Kind || n.Error.Message != o.Error.Message) {
		return false
	}
	for i, c := range n.Children {
		d := o.Children[i]
		if c.Field != d.Field || c.Offset != d.Offset || !c.Node.Equal(d.Node) {
			return false
		}
	}
	return true
}
