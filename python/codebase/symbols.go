package codebase

import (
	"github.com/dhamidi/pyfront/python/parser"
)

type SymbolKind int

const (
	SymbolClass SymbolKind = iota
	SymbolFunction
	SymbolMethod
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolClass:
		return "class"
	case SymbolMethod:
		return "method"
	default:
		return "function"
	}
}

// Symbol is a class or function definition. Span covers the whole
// definition including decorators, NameSpan only its name.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Span     parser.Span
	NameSpan parser.Span
	Children []Symbol
}

// Outline lists the class and function definitions of a tree, nested the
// way they are in the source. Definitions inside compound statements such
// as if or try belong to the enclosing definition.
func Outline(tree *parser.Tree) []Symbol {
	return outline(tree.Source(), tree.Root(), 0, false)
}

func outline(src []byte, n *parser.Node, start int, inClass bool) []Symbol {
	var out []Symbol
	for _, c := range n.Children {
		if !c.Node.Named {
			continue
		}
		at := start + c.Offset
		switch c.Node.Kind {
		case parser.KindClassDefinition, parser.KindFunctionDefinition, parser.KindAsyncFunctionDefinition:
			if sym, ok := definition(src, c.Node, at, inClass); ok {
				out = append(out, sym)
			}
		case parser.KindDecoratedDefinition:
			for _, sym := range outline(src, c.Node, at, inClass) {
				sym.Span = parser.Span{Start: at, End: at + c.Node.Length}
				out = append(out, sym)
			}
		default:
			out = append(out, outline(src, c.Node, at, inClass)...)
		}
	}
	return out
}

func definition(src []byte, n *parser.Node, start int, inClass bool) (Symbol, bool) {
	sym := Symbol{Span: parser.Span{Start: start, End: start + n.Length}}
	for _, c := range n.Children {
		if c.Field == "name" {
			sym.NameSpan = parser.Span{Start: start + c.Offset, End: start + c.Offset + c.Node.Length}
			sym.Name = string(src[sym.NameSpan.Start:sym.NameSpan.End])
			break
		}
	}
	if sym.Name == "" {
		return Symbol{}, false
	}
	switch {
	case n.Kind == parser.KindClassDefinition:
		sym.Kind = SymbolClass
	case inClass:
		sym.Kind = SymbolMethod
	default:
		sym.Kind = SymbolFunction
	}
	sym.Children = outline(src, n, start, n.Kind == parser.KindClassDefinition)
	return sym, true
}
