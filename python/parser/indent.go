package parser

// findContentLine skips blank and comment-only lines starting at the
// beginning of a physical line. When a line with content is found, the
// cursor is left at its start and the indentation decision for it is
// recorded in the scanner state. It reports false at end of input.
func (s *Scanner) findContentLine() bool {
	for {
		lineStart := s.pos
		w := s.measureIndent()
		if s.atEOF() {
			return false
		}
		switch c := s.peek(); {
		case c == '\n' || c == '\r':
			s.pos += s.newlineLen(s.pos)
			continue
		case c == '#':
			s.skipComment()
			continue
		}
		s.pos = lineStart
		s.decideIndent(w)
		return true
	}
}

// measureIndent consumes leading whitespace and returns its column width.
// Tabs advance to the next tab stop and a form feed resets the column.
func (s *Scanner) measureIndent() int {
	w := 0
	for !s.atEOF() {
		switch s.peek() {
		case ' ':
			w++
			s.pos++
		case '\t':
			w += s.tabWidth - w%s.tabWidth
			s.pos++
		case '\f':
			w = 0
			s.pos++
		default:
			if n := s.zeroWidthLen(s.pos); n > 0 {
				s.pos += n
				continue
			}
			return w
		}
	}
	return w
}

// decideIndent compares the width of a new content line with the
// indentation stack and queues the structural tokens it implies.
func (s *Scanner) decideIndent(w int) {
	st := &s.state
	top := st.Indents[len(st.Indents)-1]
	switch {
	case !st.Started && w > 0:
		st.PendingError = true
	case w > top:
		st.Indents = append(st.Indents, w)
		st.PendingIndent = true
	case w < top:
		for len(st.Indents) > 1 && st.Indents[len(st.Indents)-1] > w {
			st.Indents = st.Indents[:len(st.Indents)-1]
			st.PendingDedents++
		}
		if st.Indents[len(st.Indents)-1] != w {
			st.PendingError = true
		}
	}
}

// indentError emits the error token owed for a line whose indentation is
// unexpected or matches no enclosing block. It covers the indentation.
func (s *Scanner) indentError() Token {
	problem := ProblemInconsistentDedent
	if !s.state.Started {
		problem = ProblemUnexpectedIndent
	}
	start := s.pos
	s.measureIndent()
	return s.token(TokenError, start, 0, problem)
}
