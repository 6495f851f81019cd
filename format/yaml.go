package format

import (
	"bytes"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/pyfront/python/parser"
)

type YAMLEncoder struct {
	w         io.Writer
	tree      *parser.Tree
	anonymous bool
}

func NewYAMLEncoder(w io.Writer, anonymous bool) *YAMLEncoder {
	return &YAMLEncoder{w: w, anonymous: anonymous}
}

func (e *YAMLEncoder) Encode(tree *parser.Tree) error {
	e.tree = tree
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *YAMLEncoder) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(buildDocument(e.tree, e.anonymous)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
