package literal

import (
	"fmt"

	"github.com/dhamidi/pyfront/python/parser"
)

// Value decodes a number or string token from src. It returns a *big.Int,
// a decimal.Decimal, an Imaginary or a Str.
func Value(src []byte, tok parser.Token) (any, error) {
	text := tok.Text(src)
	switch {
	case tok.Kind == parser.TokenString:
		return String(text)
	case tok.Flags.Has(parser.FlagImaginary):
		return Complex(text)
	case tok.Kind == parser.TokenInteger:
		return Int(text)
	case tok.Kind == parser.TokenFloat:
		return Float(text)
	}
	return nil, fmt.Errorf("%w: %s token has no value", ErrMalformed, tok.Kind)
}
