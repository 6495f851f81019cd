package parser

// Scanner produces the token stream of a source buffer: literal tokens from
// the classifier interleaved with NEWLINE, INDENT and DEDENT from the
// indentation tracker. It is pull based and resumable: the pair of State
// and Offset taken before any call to Next is enough to reproduce every
// following token with Resume.
type Scanner struct {
	lexer
	state        ScannerState
	tabWidth     int
	keepComments bool
	comments     []Token
	leading      int
}

// NewScanner returns a scanner positioned at the start of src.
func NewScanner(src []byte, opts ...Option) *Scanner {
	return Resume(src, 0, NewScannerState(), opts...)
}

// Resume returns a scanner that continues at offset with a previously
// captured state.
func Resume(src []byte, offset int, state ScannerState, opts ...Option) *Scanner {
	cfg := newConfig(opts)
	return &Scanner{
		lexer:        lexer{src: src, pos: offset},
		state:        state.Clone(),
		tabWidth:     cfg.tabWidth,
		keepComments: cfg.comments,
		leading:      offset,
	}
}

// State returns a copy of the current scanner state.
func (s *Scanner) State() ScannerState { return s.state.Clone() }

// Offset returns the byte offset the next token's leading trivia starts at.
func (s *Scanner) Offset() int { return s.pos }

// Comments returns the comments consumed so far, when enabled with
// WithComments.
func (s *Scanner) Comments() []Token { return s.comments }

// Next returns the next token. After end of input it keeps returning EOF.
func (s *Scanner) Next() Token {
	st := &s.state
	for {
		switch {
		case st.PendingDedents > 0:
			st.PendingDedents--
			return s.token(TokenDedent, s.pos, 0, ProblemNone)
		case st.PendingIndent:
			st.PendingIndent = false
			return s.token(TokenIndent, s.pos, 0, ProblemNone)
		case st.PendingError:
			st.PendingError = false
			return s.indentError()
		case st.LineStart:
			st.LineStart = false
			s.findContentLine()
			continue
		}

		s.skipTrivia()
		if s.atEOF() {
			return s.eof()
		}
		if c := s.peek(); c == '\n' || c == '\r' {
			start := s.pos
			s.pos += s.newlineLen(s.pos)
			if st.Depth > 0 {
				continue
			}
			if !st.InLine {
				st.LineStart = true
				continue
			}
			st.InLine = false
			st.LineStart = true
			return s.token(TokenNewline, start, 0, ProblemNone)
		}

		kind, start, flags, problem := s.classify(&st.Depth)
		st.InLine = true
		st.Started = true
		return s.token(kind, start, flags, problem)
	}
}

func (s *Scanner) eof() Token {
	st := &s.state
	if st.InLine {
		st.InLine = false
		return s.token(TokenNewline, s.pos, 0, ProblemNone)
	}
	if len(st.Indents) > 1 {
		st.Indents = st.Indents[:len(st.Indents)-1]
		return s.token(TokenDedent, s.pos, 0, ProblemNone)
	}
	return s.token(TokenEOF, s.pos, 0, ProblemNone)
}

// skipTrivia consumes spaces, comments and backslash line continuations.
// Line terminators are left for Next to decide on.
func (s *Scanner) skipTrivia() {
	for !s.atEOF() {
		switch s.peek() {
		case ' ', '\t', '\f', '\v':
			s.pos++
		case '#':
			s.skipComment()
		case '\\':
			n := s.newlineLen(s.pos + 1)
			if n == 0 {
				return
			}
			s.pos += 1 + n
		default:
			n := s.zeroWidthLen(s.pos)
			if n == 0 {
				return
			}
			s.pos += n
		}
	}
}

func (s *Scanner) skipComment() {
	start := s.pos
	for !s.atEOF() && s.peek() != '\n' && s.peek() != '\r' {
		s.pos++
	}
	if s.keepComments {
		s.comments = append(s.comments, Token{
			Kind:    TokenComment,
			Span:    Span{Start: start, End: s.pos},
			Leading: start,
		})
	}
}

func (s *Scanner) token(kind TokenKind, start int, flags TokenFlags, problem Problem) Token {
	tok := Token{
		Kind:    kind,
		Span:    Span{Start: start, End: s.pos},
		Leading: s.leading,
		Flags:   flags,
		Problem: problem,
	}
	s.leading = s.pos
	return tok
}

// Tokenize scans src to the end and returns every token, EOF included, and
// the comments when WithComments is set.
func Tokenize(src []byte, opts ...Option) ([]Token, []Token) {
	s := NewScanner(src, opts...)
	var toks []Token
	for {
		tok := s.Next()
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			return toks, s.comments
		}
	}
}
