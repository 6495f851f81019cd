package parser

import (
	"testing"
)

// firstToken returns the first token of input that is not structural.
func firstToken(t *testing.T, input string) Token {
	t.Helper()
	toks, _ := Tokenize([]byte(input))
	for _, tok := range toks {
		if !tok.Kind.IsStructural() {
			return tok
		}
	}
	t.Fatalf("no token in %q", input)
	return Token{}
}

func TestLexerKeywords(t *testing.T) {
	for k := TokenAnd; k <= TokenNone; k++ {
		t.Run(k.String(), func(t *testing.T) {
			tok := firstToken(t, k.String())
			if tok.Kind != k {
				t.Errorf("Kind = %v, want %v", tok.Kind, k)
			}
		})
	}
}

func TestLexerOperators(t *testing.T) {
	for k := TokenPlus; k < literalEnd; k++ {
		t.Run(k.String(), func(t *testing.T) {
			input := k.String()
			if k == TokenLParen || k == TokenLBracket || k == TokenLBrace {
				input += map[TokenKind]string{TokenLParen: ")", TokenLBracket: "]", TokenLBrace: "}"}[k]
			}
			if k == TokenRParen || k == TokenRBracket || k == TokenRBrace {
				input = map[TokenKind]string{TokenRParen: "(", TokenRBracket: "[", TokenRBrace: "{"}[k] + input
				toks, _ := Tokenize([]byte(input))
				if toks[1].Kind != k {
					t.Errorf("Kind = %v, want %v", toks[1].Kind, k)
				}
				return
			}
			tok := firstToken(t, input)
			if tok.Kind != k {
				t.Errorf("Kind = %v, want %v", tok.Kind, k)
			}
		})
	}
}

func TestLexerLongestMatch(t *testing.T) {
	tests := []struct {
		input string
		want  []TokenKind
	}{
		{"a**=b", []TokenKind{TokenIdentifier, TokenDoubleStarAssign, TokenIdentifier}},
		{"a//b", []TokenKind{TokenIdentifier, TokenDoubleSlash, TokenIdentifier}},
		{"a<>b", []TokenKind{TokenIdentifier, TokenLessGreater, TokenIdentifier}},
		{"a->b", []TokenKind{TokenIdentifier, TokenArrow, TokenIdentifier}},
		{"a>>=b", []TokenKind{TokenIdentifier, TokenShiftRightAssign, TokenIdentifier}},
		{"x[...]", []TokenKind{TokenIdentifier, TokenLBracket, TokenEllipsis, TokenRBracket}},
		{"a.b", []TokenKind{TokenIdentifier, TokenDot, TokenIdentifier}},
		{"ifx", []TokenKind{TokenIdentifier}},
		{"not in", []TokenKind{TokenNot, TokenIn}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, _ := Tokenize([]byte(tt.input))
			var got []TokenKind
			for _, tok := range toks {
				if !tok.Kind.IsStructural() && tok.Kind != TokenEOF {
					got = append(got, tok.Kind)
				}
			}
			sameKinds(t, got, tt.want)
		})
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
		flags TokenFlags
	}{
		{"0", TokenInteger, 0},
		{"1_000", TokenInteger, 0},
		{"0x1F", TokenInteger, FlagHex},
		{"0o17", TokenInteger, FlagOctal},
		{"0b1010", TokenInteger, FlagBinary},
		{"10L", TokenInteger, FlagLong},
		{"0xffL", TokenInteger, FlagHex | FlagLong},
		{"3.14", TokenFloat, 0},
		{".5", TokenFloat, 0},
		{"1.", TokenFloat, 0},
		{"1e10", TokenFloat, 0},
		{"1E-3", TokenFloat, 0},
		{"2j", TokenInteger, FlagImaginary},
		{"1.5J", TokenFloat, FlagImaginary},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok := firstToken(t, tt.input)
			if tok.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tok.Kind, tt.kind)
			}
			if tok.Flags != tt.flags {
				t.Errorf("Flags = %b, want %b", tok.Flags, tt.flags)
			}
			if got := tok.Span.Len(); got != len(tt.input) {
				t.Errorf("token length = %d, want %d", got, len(tt.input))
			}
		})
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		input string
		flags TokenFlags
	}{
		{`'a'`, 0},
		{`"a"`, 0},
		{`'it\'s'`, 0},
		{`u'a'`, FlagUnicode},
		{`r'\d'`, FlagRaw},
		{`b"x"`, FlagBytes},
		{`f"{x}"`, FlagFormat},
		{`Rb'x'`, FlagRaw | FlagBytes},
		{`"""a "quoted" b"""`, FlagTriple},
		{"'''one\ntwo'''", FlagTriple},
		{"`x`", FlagBackquote},
		{"'a\\\nb'", 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok := firstToken(t, tt.input)
			if tok.Kind != TokenString {
				t.Fatalf("Kind = %v, want %v", tok.Kind, TokenString)
			}
			if tok.Flags != tt.flags {
				t.Errorf("Flags = %b, want %b", tok.Flags, tt.flags)
			}
			if got := tok.Span.Len(); got != len(tt.input) {
				t.Errorf("token length = %d, want %d", got, len(tt.input))
			}
		})
	}
}

func TestLexerIdentifiers(t *testing.T) {
	tests := []string{"foo", "_private", "Bar9", "λ", "naïve", "print_", "été"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			tok := firstToken(t, input)
			if tok.Kind != TokenIdentifier {
				t.Errorf("Kind = %v, want %v", tok.Kind, TokenIdentifier)
			}
			if got := tok.Span.Len(); got != len(input) {
				t.Errorf("token length = %d, want %d", got, len(input))
			}
		})
	}
}

func TestLexerProblems(t *testing.T) {
	tests := []struct {
		input   string
		problem Problem
	}{
		{"$", ProblemInvalidCharacter},
		{"?", ProblemInvalidCharacter},
		{"'abc", ProblemUnterminatedString},
		{"'''abc", ProblemUnterminatedString},
		{")", ProblemUnmatchedBracket},
		{"\\ x", ProblemStrayBackslash},
		{"0x", ProblemMalformedNumber},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok := firstToken(t, tt.input)
			if tok.Kind != TokenError {
				t.Fatalf("Kind = %v, want %v", tok.Kind, TokenError)
			}
			if tok.Problem != tt.problem {
				t.Errorf("Problem = %v, want %v", tok.Problem, tt.problem)
			}
		})
	}
}

func TestLexerUnmatchedBracketKeepsDepth(t *testing.T) {
	toks, _ := Tokenize([]byte("a)\nb\n"))
	sameKinds(t, kinds(toks), []TokenKind{TokenIdentifier, TokenError, TokenNewline, TokenIdentifier, TokenNewline, TokenEOF})
}
