package parser

import (
	"unicode"
	"unicode/utf8"
)

// lexer is the byte cursor shared by the literal classifier and the
// indentation tracker.
type lexer struct {
	src []byte
	pos int
}

func (l *lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) peekN(n int) byte {
	if l.pos+n >= len(l.src) {
		return 0
	}
	return l.src[l.pos+n]
}

func (l *lexer) atEOF() bool {
	return l.pos >= len(l.src)
}

// newlineLen returns the length of the line terminator at offset, or 0.
func (l *lexer) newlineLen(offset int) int {
	if offset >= len(l.src) {
		return 0
	}
	switch l.src[offset] {
	case '\n':
		return 1
	case '\r':
		if offset+1 < len(l.src) && l.src[offset+1] == '\n' {
			return 2
		}
		return 1
	}
	return 0
}

// zeroWidthLen returns the byte length of a byte order mark or zero width
// space at offset, or 0. These count as whitespace of no width.
func (l *lexer) zeroWidthLen(offset int) int {
	if offset+3 > len(l.src) || l.src[offset] < utf8.RuneSelf {
		return 0
	}
	r, n := utf8.DecodeRune(l.src[offset:])
	switch r {
	case '\uFEFF', '\u200B', '\u2060':
		return n
	}
	return 0
}

// classify consumes the longest literal token at the cursor. depth is the
// bracket depth, updated for openers and closers.
func (l *lexer) classify(depth *int) (kind TokenKind, start int, flags TokenFlags, problem Problem) {
	start = l.pos
	c := l.peek()
	switch {
	case isIdentStart(c) || c >= utf8.RuneSelf && l.identRuneAt(l.pos, true):
		return l.scanWord(start)
	case isDigit(c) || c == '.' && isDigit(l.peekN(1)):
		kind, flags, problem = l.scanNumber()
		return kind, start, flags, problem
	case c == '"' || c == '\'' || c == '`':
		kind, flags, problem = l.scanString(0)
		return kind, start, flags, problem
	case c == '\\':
		l.pos++
		return TokenError, start, 0, ProblemStrayBackslash
	}
	if kind, ok := l.scanOperator(); ok {
		switch kind {
		case TokenLParen, TokenLBracket, TokenLBrace:
			*depth++
		case TokenRParen, TokenRBracket, TokenRBrace:
			if *depth == 0 {
				return TokenError, start, 0, ProblemUnmatchedBracket
			}
			*depth--
		}
		return kind, start, 0, ProblemNone
	}
	_, n := utf8.DecodeRune(l.src[l.pos:])
	l.pos += n
	return TokenError, start, 0, ProblemInvalidCharacter
}

func (l *lexer) scanWord(start int) (TokenKind, int, TokenFlags, Problem) {
	for !l.atEOF() {
		c := l.peek()
		if isIdentPart(c) {
			l.pos++
			continue
		}
		if c >= utf8.RuneSelf && l.identRuneAt(l.pos, false) {
			_, n := utf8.DecodeRune(l.src[l.pos:])
			l.pos += n
			continue
		}
		break
	}
	word := string(l.src[start:l.pos])
	if q := l.peek(); q == '"' || q == '\'' || q == '`' {
		if flags, ok := stringPrefix(word); ok {
			kind, more, problem := l.scanString(flags)
			return kind, start, more, problem
		}
	}
	return LookupKeyword(word), start, 0, ProblemNone
}

func (l *lexer) identRuneAt(offset int, first bool) bool {
	if l.zeroWidthLen(offset) > 0 {
		return false
	}
	r, _ := utf8.DecodeRune(l.src[offset:])
	if r == utf8.RuneError {
		return false
	}
	if first {
		return unicode.IsLetter(r) || unicode.Is(unicode.Nl, r)
	}
	return unicode.In(r, unicode.Letter, unicode.Digit, unicode.Mn, unicode.Mc, unicode.Nl, unicode.Pc)
}

// stringPrefix accepts up to three of the prefix letters u, r, b and f.
func stringPrefix(word string) (TokenFlags, bool) {
	if len(word) > 3 {
		return 0, false
	}
	var flags TokenFlags
	for i := 0; i < len(word); i++ {
		var f TokenFlags
		switch word[i] {
		case 'u', 'U':
			f = FlagUnicode
		case 'r', 'R':
			f = FlagRaw
		case 'b', 'B':
			f = FlagBytes
		case 'f', 'F':
			f = FlagFormat
		default:
			return 0, false
		}
		flags |= f
	}
	return flags, true
}

func (l *lexer) scanString(flags TokenFlags) (TokenKind, TokenFlags, Problem) {
	q := l.peek()
	if q == '`' {
		flags |= FlagBackquote
	} else if l.peekN(1) == q && l.peekN(2) == q {
		flags |= FlagTriple
		l.pos += 3
		for !l.atEOF() {
			c := l.src[l.pos]
			l.pos++
			if c == '\\' {
				if !l.atEOF() {
					l.pos++
				}
				continue
			}
			if c == q && l.peek() == q && l.peekN(1) == q {
				l.pos += 2
				return TokenString, flags, ProblemNone
			}
		}
		return TokenError, flags, ProblemUnterminatedString
	}
	l.pos++
	for !l.atEOF() {
		c := l.src[l.pos]
		if c == '\n' || c == '\r' {
			break
		}
		l.pos++
		if c == '\\' {
			if n := l.newlineLen(l.pos); n > 0 {
				l.pos += n
			} else if !l.atEOF() {
				l.pos++
			}
			continue
		}
		if c == q {
			return TokenString, flags, ProblemNone
		}
	}
	return TokenError, flags, ProblemUnterminatedString
}

func (l *lexer) scanNumber() (TokenKind, TokenFlags, Problem) {
	if l.peek() == '0' {
		var valid func(byte) bool
		var flags TokenFlags
		switch l.peekN(1) {
		case 'x', 'X':
			valid, flags = isHexDigit, FlagHex
		case 'o', 'O':
			valid, flags = isOctalDigit, FlagOctal
		case 'b', 'B':
			valid, flags = isBinaryDigit, FlagBinary
		}
		if valid != nil {
			l.pos += 2
			digits := l.pos
			for !l.atEOF() && (valid(l.peek()) || l.peek() == '_' && valid(l.peekN(1))) {
				l.pos++
			}
			if l.pos == digits {
				return TokenError, flags, ProblemMalformedNumber
			}
			if c := l.peek(); c == 'l' || c == 'L' {
				l.pos++
				flags |= FlagLong
			}
			return TokenInteger, flags, ProblemNone
		}
	}

	kind := TokenInteger
	l.scanDecimalDigits()
	if l.peek() == '.' {
		kind = TokenFloat
		l.pos++
		l.scanDecimalDigits()
	}
	if c := l.peek(); c == 'e' || c == 'E' {
		save := l.pos
		l.pos++
		if c := l.peek(); c == '+' || c == '-' {
			l.pos++
		}
		if isDigit(l.peek()) {
			l.scanDecimalDigits()
			kind = TokenFloat
		} else {
			l.pos = save
		}
	}
	var flags TokenFlags
	switch l.peek() {
	case 'j', 'J':
		l.pos++
		flags |= FlagImaginary
	case 'l', 'L':
		l.pos++
		flags |= FlagLong
	}
	return kind, flags, ProblemNone
}

func (l *lexer) scanDecimalDigits() {
	for !l.atEOF() && (isDigit(l.peek()) || l.peek() == '_' && isDigit(l.peekN(1))) {
		l.pos++
	}
}

// scanOperator matches the longest operator or delimiter at the cursor.
func (l *lexer) scanOperator() (TokenKind, bool) {
	for n := 3; n >= 1; n-- {
		if l.pos+n > len(l.src) {
			continue
		}
		if kind, ok := operators[string(l.src[l.pos:l.pos+n])]; ok {
			l.pos += n
			return kind, true
		}
	}
	return TokenError, false
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func isOctalDigit(c byte) bool {
	return c >= '0' && c <= '7'
}

func isBinaryDigit(c byte) bool {
	return c == '0' || c == '1'
}
