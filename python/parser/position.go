package parser

import "sort"

// Position is a location in the source.
type Position struct {
	Offset int
	Line   int // 1-based
	Column int // 1-based, in bytes
}

// LineIndex maps byte offsets to line and column numbers. LF, CR and CRLF
// all end a line.
type LineIndex struct {
	starts []int
}

func NewLineIndex(src []byte) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '\n':
			starts = append(starts, i+1)
		case '\r':
			if i+1 < len(src) && src[i+1] == '\n' {
				i++
			}
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts}
}

// Position returns the line and column of offset.
func (x *LineIndex) Position(offset int) Position {
	line := sort.Search(len(x.starts), func(i int) bool { return x.starts[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	return Position{Offset: offset, Line: line + 1, Column: offset - x.starts[line] + 1}
}

// Offset is the inverse of Position for 1-based line and column numbers.
// Out of range values are clamped to the nearest line.
func (x *LineIndex) Offset(line, column int) int {
	if line < 1 {
		line = 1
	}
	if line > len(x.starts) {
		line = len(x.starts)
	}
	if column < 1 {
		column = 1
	}
	return x.starts[line-1] + column - 1
}

func (x *LineIndex) LineCount() int { return len(x.starts) }
