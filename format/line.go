package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/pyfront/python/parser"
)

// LineEncoder writes one token per line:
//
//	line:column	kind	text	flags
//
// Structural tokens have empty text. Error tokens carry their problem in
// place of flags.
type LineEncoder struct {
	w      io.Writer
	src    []byte
	tokens []parser.Token
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(src []byte, tokens []parser.Token) error {
	e.src, e.tokens = src, tokens
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	lines := parser.NewLineIndex(e.src)
	for _, tok := range e.tokens {
		pos := lines.Position(tok.Span.Start)
		fmt.Fprintf(&sb, "%d:%d\t%s\t%s\t%s\n",
			pos.Line, pos.Column,
			tok.Kind,
			strconv.Quote(tok.Text(e.src)),
			tokenDetail(tok),
		)
	}
	return []byte(sb.String()), nil
}

var flagNames = []struct {
	flag parser.TokenFlags
	name string
}{
	{parser.FlagRaw, "raw"},
	{parser.FlagBytes, "bytes"},
	{parser.FlagUnicode, "unicode"},
	{parser.FlagFormat, "format"},
	{parser.FlagTriple, "triple"},
	{parser.FlagBackquote, "backquote"},
	{parser.FlagImaginary, "imaginary"},
	{parser.FlagLong, "long"},
	{parser.FlagHex, "hex"},
	{parser.FlagOctal, "octal"},
	{parser.FlagBinary, "binary"},
}

func tokenDetail(tok parser.Token) string {
	if tok.Kind == parser.TokenError {
		return tok.Problem.String()
	}
	var names []string
	for _, f := range flagNames {
		if tok.Flags.Has(f.flag) {
			names = append(names, f.name)
		}
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}
