package parser

import (
	"encoding/binary"
	"errors"
	"fmt"
	"slices"
)

// MaxSnapshotSize bounds the serialized form of a ScannerState.
const MaxSnapshotSize = 1024

var ErrSnapshotTooLarge = errors.New("scanner state exceeds snapshot size")

var errBadSnapshot = errors.New("malformed scanner snapshot")

// ScannerState is everything the scanner needs to resume at a byte offset:
// the indentation stack, the bracket depth and the structural tokens still
// owed from the last line-start decision.
type ScannerState struct {
	// Indents is strictly increasing with a sentinel 0 at the bottom.
	Indents        []int
	Depth          int
	PendingDedents int
	PendingIndent  bool
	// PendingError owes a lexical error token covering the indentation of
	// the current line (unexpected indent or inconsistent dedent).
	PendingError bool
	// LineStart is set when the next physical line needs an indentation
	// decision.
	LineStart bool
	// InLine is set once a token has been emitted on the current logical
	// line, so a NEWLINE is owed at its end.
	InLine bool
	// Started is set once any token has been emitted.
	Started bool
}

// NewScannerState returns the state at the start of a file.
func NewScannerState() ScannerState {
	return ScannerState{Indents: []int{0}, LineStart: true}
}

func (s ScannerState) Clone() ScannerState {
	s.Indents = slices.Clone(s.Indents)
	return s
}

func (s ScannerState) Equal(o ScannerState) bool {
	return slices.Equal(s.Indents, o.Indents) &&
		s.Depth == o.Depth &&
		s.PendingDedents == o.PendingDedents &&
		s.PendingIndent == o.PendingIndent &&
		s.PendingError == o.PendingError &&
		s.LineStart == o.LineStart &&
		s.InLine == o.InLine &&
		s.Started == o.Started
}

// AtTopLevel reports whether no block, bracket or structural token is open.
func (s ScannerState) AtTopLevel() bool {
	return len(s.Indents) == 1 && s.Depth == 0 && s.PendingDedents == 0 && !s.PendingIndent
}

const (
	snapPendingIndent = 1 << iota
	snapPendingError
	snapLineStart
	snapInLine
	snapStarted
)

// MarshalBinary encodes the state as a flag byte followed by uvarints:
// depth, pending dedents, the number of pushed widths and the width deltas.
func (s ScannerState) MarshalBinary() ([]byte, error) {
	var flags byte
	if s.PendingIndent {
		flags |= snapPendingIndent
	}
	if s.PendingError {
		flags |= snapPendingError
	}
	if s.LineStart {
		flags |= snapLineStart
	}
	if s.InLine {
		flags |= snapInLine
	}
	if s.Started {
		flags |= snapStarted
	}
	buf := make([]byte, 0, 16+len(s.Indents))
	buf = append(buf, flags)
	buf = binary.AppendUvarint(buf, uint64(s.Depth))
	buf = binary.AppendUvarint(buf, uint64(s.PendingDedents))
	pushed := len(s.Indents) - 1
	if pushed < 0 {
		pushed = 0
	}
	buf = binary.AppendUvarint(buf, uint64(pushed))
	prev := 0
	for _, w := range s.Indents[len(s.Indents)-pushed:] {
		buf = binary.AppendUvarint(buf, uint64(w-prev))
		prev = w
	}
	if len(buf) > MaxSnapshotSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrSnapshotTooLarge, len(buf))
	}
	return buf, nil
}

func (s *ScannerState) UnmarshalBinary(data []byte) error {
	if len(data) == 0 || len(data) > MaxSnapshotSize {
		return errBadSnapshot
	}
	flags := data[0]
	rest := data[1:]
	next := func() (int, error) {
		v, n := binary.Uvarint(rest)
		if n <= 0 || v > 1<<30 {
			return 0, errBadSnapshot
		}
		rest = rest[n:]
		return int(v), nil
	}
	depth, err := next()
	if err != nil {
		return err
	}
	dedents, err := next()
	if err != nil {
		return err
	}
	pushed, err := next()
	if err != nil {
		return err
	}
	if pushed > len(rest) {
		return errBadSnapshot
	}
	indents := make([]int, 1, pushed+1)
	for i := 0; i < pushed; i++ {
		delta, err := next()
		if err != nil {
			return err
		}
		if delta == 0 {
			return fmt.Errorf("%w: indentation widths must increase", errBadSnapshot)
		}
		indents = append(indents, indents[len(indents)-1]+delta)
	}
	if len(rest) != 0 {
		return fmt.Errorf("%w: %d trailing bytes", errBadSnapshot, len(rest))
	}
	*s = ScannerState{
		Indents:        indents,
		Depth:          depth,
		PendingDedents: dedents,
		PendingIndent:  flags&snapPendingIndent != 0,
		PendingError:   flags&snapPendingError != 0,
		LineStart:      flags&snapLineStart != 0,
		InLine:         flags&snapInLine != 0,
		Started:        flags&snapStarted != 0,
	}
	return nil
}
