package codebase

import (
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/pyfront/python/parser"
)

// Editors count columns in UTF-16 code units from zero; the parser counts
// bytes and lines from one.

func toProtocolPosition(src []byte, lines *parser.LineIndex, offset int) protocol.Position {
	pos := lines.Position(offset)
	lineStart := offset - (pos.Column - 1)
	units := 0
	for i := lineStart; i < offset; {
		r, size := utf8.DecodeRune(src[i:])
		units += utf16.RuneLen(r)
		i += size
	}
	return protocol.Position{Line: protocol.UInteger(pos.Line - 1), Character: protocol.UInteger(units)}
}

func toProtocolRange(src []byte, lines *parser.LineIndex, span parser.Span) protocol.Range {
	return protocol.Range{
		Start: toProtocolPosition(src, lines, span.Start),
		End:   toProtocolPosition(src, lines, span.End),
	}
}

// fromProtocolPosition maps an editor position to a byte offset. Positions
// past the end of a line clamp to the line end.
func fromProtocolPosition(src []byte, lines *parser.LineIndex, pos protocol.Position) int {
	line := int(pos.Line) + 1
	if line > lines.LineCount() {
		return len(src)
	}
	offset := lines.Offset(line, 1)
	for units := 0; offset < len(src) && units < int(pos.Character); {
		if src[offset] == '\n' || src[offset] == '\r' {
			break
		}
		r, size := utf8.DecodeRune(src[offset:])
		units += utf16.RuneLen(r)
		offset += size
	}
	return offset
}

// applyChange applies one content change to src and returns the new text
// with the edit it made. A change without a range replaces everything.
func applyChange(src []byte, change any) ([]byte, parser.Edit, bool) {
	switch ch := change.(type) {
	case protocol.TextDocumentContentChangeEvent:
		if ch.Range == nil {
			return []byte(ch.Text), parser.Edit{Start: 0, OldLength: len(src), NewLength: len(ch.Text)}, true
		}
		lines := parser.NewLineIndex(src)
		start := fromProtocolPosition(src, lines, ch.Range.Start)
		end := fromProtocolPosition(src, lines, ch.Range.End)
		if end < start {
			start, end = end, start
		}
		out := make([]byte, 0, len(src)-(end-start)+len(ch.Text))
		out = append(out, src[:start]...)
		out = append(out, ch.Text...)
		out = append(out, src[end:]...)
		return out, parser.Edit{Start: start, OldLength: end - start, NewLength: len(ch.Text)}, true
	case protocol.TextDocumentContentChangeEventWhole:
		return []byte(ch.Text), parser.Edit{Start: 0, OldLength: len(src), NewLength: len(ch.Text)}, true
	}
	return src, parser.Edit{}, false
}
