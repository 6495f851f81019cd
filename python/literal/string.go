package literal

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Prefix holds the string prefix letters, case folded.
type Prefix struct {
	Raw     bool
	Bytes   bool
	Unicode bool
	Format  bool
}

func (p Prefix) String() string {
	var sb strings.Builder
	if p.Raw {
		sb.WriteByte('r')
	}
	if p.Bytes {
		sb.WriteByte('b')
	}
	if p.Unicode {
		sb.WriteByte('u')
	}
	if p.Format {
		sb.WriteByte('f')
	}
	return sb.String()
}

// Str is a decoded string literal. Value holds bytes for byte strings and
// UTF-8 text otherwise.
type Str struct {
	Prefix    Prefix
	Value     string
	Triple    bool
	Backquote bool
}

// String decodes a string literal including its prefix and quotes.
// Backquoted strings are returned verbatim between the backquotes.
func String(text string) (Str, error) {
	var s Str
	i := 0
prefix:
	for ; i < len(text); i++ {
		switch text[i] {
		case 'r', 'R':
			s.Prefix.Raw = true
		case 'b', 'B':
			s.Prefix.Bytes = true
		case 'u', 'U':
			s.Prefix.Unicode = true
		case 'f', 'F':
			s.Prefix.Format = true
		default:
			break prefix
		}
	}
	body := text[i:]
	if len(body) < 2 {
		return Str{}, fmt.Errorf("%w: string %q", ErrMalformed, text)
	}
	quote := body[:1]
	if quote == "`" {
		if i > 0 || !strings.HasSuffix(body, "`") {
			return Str{}, fmt.Errorf("%w: string %q", ErrMalformed, text)
		}
		s.Backquote = true
		s.Value = body[1 : len(body)-1]
		return s, nil
	}
	if quote != "'" && quote != `"` {
		return Str{}, fmt.Errorf("%w: string %q", ErrMalformed, text)
	}
	if len(body) >= 6 && strings.HasPrefix(body, strings.Repeat(quote, 3)) {
		quote = strings.Repeat(quote, 3)
		s.Triple = true
	}
	if !strings.HasSuffix(body[len(quote):], quote) {
		return Str{}, fmt.Errorf("%w: unterminated string %q", ErrMalformed, text)
	}
	inner := body[len(quote) : len(body)-len(quote)]
	if s.Prefix.Raw {
		s.Value = inner
		return s, nil
	}
	v, err := unescape(inner, !s.Prefix.Bytes)
	if err != nil {
		return Str{}, fmt.Errorf("%w: string %q: %v", ErrMalformed, text, err)
	}
	s.Value = v
	return s, nil
}

// unescape resolves backslash escapes. Unknown escapes are kept with their
// backslash. \u, \U and \N are only escapes in text strings.
func unescape(s string, text bool) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var sb strings.Builder
	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			sb.WriteByte(c)
			i++
			continue
		}
		e := s[i+1]
		i += 2
		switch e {
		case '\n':
		case '\r':
			if i < len(s) && s[i] == '\n' {
				i++
			}
		case '\\', '\'', '"':
			sb.WriteByte(e)
		case 'a':
			sb.WriteByte('\a')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'v':
			sb.WriteByte('\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			v := int(e - '0')
			for n := 1; n < 3 && i < len(s) && s[i] >= '0' && s[i] <= '7'; n++ {
				v = v*8 + int(s[i]-'0')
				i++
			}
			writeCode(&sb, v, text)
		case 'x':
			v, err := hexDigits(s, i, 2)
			if err != nil {
				return "", err
			}
			i += 2
			writeCode(&sb, v, text)
		case 'u', 'U':
			if !text {
				sb.WriteByte('\\')
				sb.WriteByte(e)
				continue
			}
			n := 4
			if e == 'U' {
				n = 8
			}
			v, err := hexDigits(s, i, n)
			if err != nil {
				return "", err
			}
			if v > utf8.MaxRune {
				return "", fmt.Errorf("escape \\%c%s out of range", e, s[i:i+n])
			}
			i += n
			sb.WriteRune(rune(v))
		case 'N':
			// Named characters would need the Unicode name table; keep them as written.
			end := strings.IndexByte(s[i:], '}')
			if !text || i >= len(s) || s[i] != '{' || end < 0 {
				sb.WriteString(`\N`)
				continue
			}
			sb.WriteString(`\N`)
			sb.WriteString(s[i : i+end+1])
			i += end + 1
		default:
			sb.WriteByte('\\')
			sb.WriteByte(e)
		}
	}
	return sb.String(), nil
}

// writeCode writes a code point from an octal or \x escape: as a rune in
// text strings and as a single byte in byte strings.
func writeCode(sb *strings.Builder, v int, text bool) {
	if text {
		sb.WriteRune(rune(v))
		return
	}
	sb.WriteByte(byte(v))
}

func hexDigits(s string, at, n int) (int, error) {
	if at+n > len(s) {
		return 0, fmt.Errorf("truncated escape %q", s[at-2:])
	}
	v := 0
	for _, c := range []byte(s[at : at+n]) {
		var d int
		switch {
		case c >= '0' && c <= '9':
			d = int(c - '0')
		case c >= 'a' && c <= 'f':
			d = int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = int(c-'A') + 10
		default:
			return 0, fmt.Errorf("invalid hex digit %q in escape", c)
		}
		v = v*16 + d
	}
	return v, nil
}
