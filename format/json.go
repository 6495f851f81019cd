package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/pyfront/python/parser"
)

type JSONEncoder struct {
	w         io.Writer
	tree      *parser.Tree
	anonymous bool
}

func NewJSONEncoder(w io.Writer, anonymous bool) *JSONEncoder {
	return &JSONEncoder{w: w, anonymous: anonymous}
}

func (e *JSONEncoder) Encode(tree *parser.Tree) error {
	e.tree = tree
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(buildDocument(e.tree, e.anonymous), "", "  ")
}
