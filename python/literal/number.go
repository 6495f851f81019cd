// Package literal decodes the text of number and string tokens into values.
package literal

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMalformed is wrapped by every decoding error.
var ErrMalformed = errors.New("malformed literal")

// Imaginary is the value of a literal with a j suffix.
type Imaginary struct {
	Imag decimal.Decimal
}

func (i Imaginary) String() string { return i.Imag.String() + "j" }

// Int decodes an integer literal: decimal, 0x, 0o, 0b, legacy 0-prefixed
// octal, with underscores and an optional l/L suffix.
func Int(text string) (*big.Int, error) {
	s := strings.ReplaceAll(text, "_", "")
	s = strings.TrimRight(s, "lL")
	base := 10
	switch {
	case hasPrefixFold(s, "0x"):
		base, s = 16, s[2:]
	case hasPrefixFold(s, "0o"):
		base, s = 8, s[2:]
	case hasPrefixFold(s, "0b"):
		base, s = 2, s[2:]
	case len(s) > 1 && s[0] == '0':
		if strings.Trim(s, "0") != "" {
			base, s = 8, s[1:]
		}
	}
	if s == "" {
		return nil, fmt.Errorf("%w: integer %q", ErrMalformed, text)
	}
	v, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, fmt.Errorf("%w: integer %q", ErrMalformed, text)
	}
	return v, nil
}

// Float decodes a float literal exactly.
func Float(text string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(text, "_", "")
	if s == "" || s == "." {
		return decimal.Zero, fmt.Errorf("%w: float %q", ErrMalformed, text)
	}
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	if s[0] == '.' {
		s = "0" + s
	}
	s = strings.Replace(s, ".e", ".0e", 1)
	s = strings.Replace(s, ".E", ".0E", 1)
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: float %q: %v", ErrMalformed, text, err)
	}
	return v, nil
}

// Complex decodes an imaginary literal such as 2j or 1.5e3J.
func Complex(text string) (Imaginary, error) {
	if !strings.HasSuffix(text, "j") && !strings.HasSuffix(text, "J") {
		return Imaginary{}, fmt.Errorf("%w: imaginary %q has no j suffix", ErrMalformed, text)
	}
	body := text[:len(text)-1]
	if strings.ContainsAny(body, ".eE") {
		v, err := Float(body)
		if err != nil {
			return Imaginary{}, err
		}
		return Imaginary{Imag: v}, nil
	}
	// Imaginary integers are always decimal: 010j is ten.
	v, ok := new(big.Int).SetString(strings.ReplaceAll(body, "_", ""), 10)
	if !ok {
		return Imaginary{}, fmt.Errorf("%w: imaginary %q", ErrMalformed, text)
	}
	return Imaginary{Imag: decimal.NewFromBigInt(v, 0)}, nil
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
