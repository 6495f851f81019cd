package parser

// Span is a half-open byte range [Start, End) in the source.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int { return s.End - s.Start }

// Contains reports whether offset lies inside the span.
func (s Span) Contains(offset int) bool { return offset >= s.Start && offset < s.End }

type TokenKind int

const (
	TokenError TokenKind = iota
	TokenEOF
	TokenNewline
	TokenIndent
	TokenDedent
	TokenComment

	TokenIdentifier
	TokenInteger
	TokenFloat
	TokenString

	literalStart

	// Keywords
	TokenAnd
	TokenAs
	TokenAssert
	TokenAsync
	TokenAwait
	TokenBreak
	TokenClass
	TokenContinue
	TokenDef
	TokenDel
	TokenElif
	TokenElse
	TokenExcept
	TokenExec
	TokenFinally
	TokenFor
	TokenFrom
	TokenGlobal
	TokenIf
	TokenImport
	TokenIn
	TokenIs
	TokenLambda
	TokenNonlocal
	TokenNot
	TokenOr
	TokenPass
	TokenPrint
	TokenRaise
	TokenReturn
	TokenTry
	TokenWhile
	TokenWith
	TokenYield
	TokenTrue
	TokenFalse
	TokenNone

	// Operators and delimiters
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenDoubleStar
	TokenDoubleSlash
	TokenShiftLeft
	TokenShiftRight
	TokenAmp
	TokenPipe
	TokenCaret
	TokenTilde
	TokenLess
	TokenGreater
	TokenLessEqual
	TokenGreaterEqual
	TokenEqualEqual
	TokenNotEqual
	TokenLessGreater
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenLBrace
	TokenRBrace
	TokenComma
	TokenColon
	TokenDot
	TokenSemicolon
	TokenAt
	TokenAssign
	TokenArrow
	TokenEllipsis
	TokenPlusAssign
	TokenMinusAssign
	TokenStarAssign
	TokenSlashAssign
	TokenDoubleSlashAssign
	TokenPercentAssign
	TokenDoubleStarAssign
	TokenShiftRightAssign
	TokenShiftLeftAssign
	TokenAmpAssign
	TokenCaretAssign
	TokenPipeAssign

	literalEnd
)

var tokenKindNames = map[TokenKind]string{
	TokenError:      "ERROR",
	TokenEOF:        "EOF",
	TokenNewline:    "NEWLINE",
	TokenIndent:     "INDENT",
	TokenDedent:     "DEDENT",
	TokenComment:    "comment",
	TokenIdentifier: "identifier",
	TokenInteger:    "integer",
	TokenFloat:      "float",
	TokenString:     "string",

	TokenAnd:      "and",
	TokenAs:       "as",
	TokenAssert:   "assert",
	TokenAsync:    "async",
	TokenAwait:    "await",
	TokenBreak:    "break",
	TokenClass:    "class",
	TokenContinue: "continue",
	TokenDef:      "def",
	TokenDel:      "del",
	TokenElif:     "elif",
	TokenElse:     "else",
	TokenExcept:   "except",
	TokenExec:     "exec",
	TokenFinally:  "finally",
	TokenFor:      "for",
	TokenFrom:     "from",
	TokenGlobal:   "global",
	TokenIf:       "if",
	TokenImport:   "import",
	TokenIn:       "in",
	TokenIs:       "is",
	TokenLambda:   "lambda",
	TokenNonlocal: "nonlocal",
	TokenNot:      "not",
	TokenOr:       "or",
	TokenPass:     "pass",
	TokenPrint:    "print",
	TokenRaise:    "raise",
	TokenReturn:   "return",
	TokenTry:      "try",
	TokenWhile:    "while",
	TokenWith:     "with",
	TokenYield:    "yield",
	TokenTrue:     "True",
	TokenFalse:    "False",
	TokenNone:     "None",

	TokenPlus:              "+",
	TokenMinus:             "-",
	TokenStar:              "*",
	TokenSlash:             "/",
	TokenPercent:           "%",
	TokenDoubleStar:        "**",
	TokenDoubleSlash:       "//",
	TokenShiftLeft:         "<<",
	TokenShiftRight:        ">>",
	TokenAmp:               "&",
	TokenPipe:              "|",
	TokenCaret:             "^",
	TokenTilde:             "~",
	TokenLess:              "<",
	TokenGreater:           ">",
	TokenLessEqual:         "<=",
	TokenGreaterEqual:      ">=",
	TokenEqualEqual:        "==",
	TokenNotEqual:          "!=",
	TokenLessGreater:       "<>",
	TokenLParen:            "(",
	TokenRParen:            ")",
	TokenLBracket:          "[",
	TokenRBracket:          "]",
	TokenLBrace:            "{",
	TokenRBrace:            "}",
	TokenComma:             ",",
	TokenColon:             ":",
	TokenDot:               ".",
	TokenSemicolon:         ";",
	TokenAt:                "@",
	TokenAssign:            "=",
	TokenArrow:             "->",
	TokenEllipsis:          "...",
	TokenPlusAssign:        "+=",
	TokenMinusAssign:       "-=",
	TokenStarAssign:        "*=",
	TokenSlashAssign:       "/=",
	TokenDoubleSlashAssign: "//=",
	TokenPercentAssign:     "%=",
	TokenDoubleStarAssign:  "**=",
	TokenShiftRightAssign:  ">>=",
	TokenShiftLeftAssign:   "<<=",
	TokenAmpAssign:         "&=",
	TokenCaretAssign:       "^=",
	TokenPipeAssign:        "|=",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsLiteral reports whether tokens of this kind are matched by spelling:
// keywords, operators and delimiters.
func (k TokenKind) IsLiteral() bool {
	return k > literalStart && k < literalEnd
}

// IsStructural reports whether the kind is synthesized by the indentation
// tracker rather than spelled in the source.
func (k TokenKind) IsStructural() bool {
	return k == TokenNewline || k == TokenIndent || k == TokenDedent
}

// IsKeyword reports whether the kind is a reserved word.
func (k TokenKind) IsKeyword() bool {
	return k >= TokenAnd && k <= TokenNone
}

var keywords map[string]TokenKind

var operators map[string]TokenKind

func init() {
	keywords = make(map[string]TokenKind)
	operators = make(map[string]TokenKind)
	for k := literalStart + 1; k < literalEnd; k++ {
		if k.IsKeyword() {
			keywords[k.String()] = k
		} else {
			operators[k.String()] = k
		}
	}
}

// LookupKeyword returns the keyword kind for ident, or TokenIdentifier.
func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdentifier
}

// TokenFlags qualify string and number tokens.
type TokenFlags uint16

const (
	FlagRaw TokenFlags = 1 << iota
	FlagBytes
	FlagUnicode
	FlagFormat
	FlagTriple
	FlagBackquote
	FlagImaginary
	FlagLong
	FlagHex
	FlagOctal
	FlagBinary
)

func (f TokenFlags) Has(flag TokenFlags) bool { return f&flag != 0 }

// Problem classifies the lexical error carried by a TokenError token.
type Problem uint8

const (
	ProblemNone Problem = iota
	ProblemInvalidCharacter
	ProblemUnterminatedString
	ProblemUnmatchedBracket
	ProblemInconsistentDedent
	ProblemUnexpectedIndent
	ProblemStrayBackslash
	ProblemMalformedNumber
)

var problemMessages = map[Problem]string{
	ProblemInvalidCharacter:   "invalid character",
	ProblemUnterminatedString: "unterminated string literal",
	ProblemUnmatchedBracket:   "unmatched closing bracket",
	ProblemInconsistentDedent: "unindent does not match any outer indentation level",
	ProblemUnexpectedIndent:   "unexpected indent",
	ProblemStrayBackslash:     "unexpected character after line continuation",
	ProblemMalformedNumber:    "malformed number literal",
}

func (p Problem) String() string {
	if msg, ok := problemMessages[p]; ok {
		return msg
	}
	return "no problem"
}

// Token is one element of the gapless token stream. Leading marks where the
// whitespace and comments preceding the token begin, so consecutive tokens
// cover [Leading, End) without gaps or overlap.
type Token struct {
	Kind    TokenKind
	Span    Span
	Leading int
	Flags   TokenFlags
	Problem Problem
}

// Text returns the token's spelling in src.
func (t Token) Text(src []byte) string {
	return string(src[t.Span.Start:t.Span.End])
}
