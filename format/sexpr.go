package format

import (
	"io"

	"github.com/dhamidi/pyfront/python/parser"
)

// SExprEncoder writes the named structure of a tree on one line.
type SExprEncoder struct {
	w         io.Writer
	tree      *parser.Tree
	positions bool
}

func NewSExprEncoder(w io.Writer, positions bool) *SExprEncoder {
	return &SExprEncoder{w: w, positions: positions}
}

func (e *SExprEncoder) Encode(tree *parser.Tree) error {
	e.tree = tree
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *SExprEncoder) MarshalText() ([]byte, error) {
	if e.positions {
		return []byte(e.tree.StringWithPositions() + "\n"), nil
	}
	return []byte(e.tree.String() + "\n"), nil
}
