package literal

import (
	"errors"
	"testing"

	"github.com/dhamidi/pyfront/python/parser"
)

func TestInt(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"0", "0"},
		{"00", "0"},
		{"42", "42"},
		{"1_000_000", "1000000"},
		{"0x1F", "31"},
		{"0XfF", "255"},
		{"0o17", "15"},
		{"017", "15"},
		{"0b1010", "10"},
		{"10L", "10"},
		{"0xffl", "255"},
		{"123456789012345678901234567890", "123456789012345678901234567890"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := Int(tt.text)
			if err != nil {
				t.Fatalf("Int(%q) error = %v", tt.text, err)
			}
			if got.String() != tt.want {
				t.Errorf("Int(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestIntMalformed(t *testing.T) {
	for _, text := range []string{"0x", "09", "0b2", "", "abc"} {
		t.Run(text, func(t *testing.T) {
			if _, err := Int(text); !errors.Is(err, ErrMalformed) {
				t.Errorf("Int(%q) error = %v, want %v", text, err, ErrMalformed)
			}
		})
	}
}

func TestFloat(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"3.14", "3.14"},
		{".5", "0.5"},
		{"1.", "1"},
		{"1e10", "10000000000"},
		{"1E-3", "0.001"},
		{"1.e2", "100"},
		{"1_0.2_5", "10.25"},
		{"0.1", "0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := Float(tt.text)
			if err != nil {
				t.Fatalf("Float(%q) error = %v", tt.text, err)
			}
			if got.String() != tt.want {
				t.Errorf("Float(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestComplex(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"2j", "2j"},
		{"010j", "10j"},
		{"1.5J", "1.5j"},
		{"1e2j", "100j"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := Complex(tt.text)
			if err != nil {
				t.Fatalf("Complex(%q) error = %v", tt.text, err)
			}
			if got.String() != tt.want {
				t.Errorf("Complex(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
	if _, err := Complex("2"); !errors.Is(err, ErrMalformed) {
		t.Errorf("Complex(2) error = %v, want %v", err, ErrMalformed)
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		text   string
		want   string
		prefix string
		triple bool
	}{
		{`'a'`, "a", "", false},
		{`""`, "", "", false},
		{`'it\'s'`, "it's", "", false},
		{`"tab\there"`, "tab\there", "", false},
		{`'\x41\101\0'`, "AA\x00", "", false},
		{`u'é'`, "é", "u", false},
		{`'\U0001F600'`, "😀", "", false},
		{`b'é'`, `é`, "b", false},
		{`b'\xff'`, "\xff", "b", false},
		{`r'\d\n'`, `\d\n`, "r", false},
		{`Rb'\x00'`, `\x00`, "rb", false},
		{`f"{x}\n"`, "{x}\n", "f", false},
		{`'\q'`, `\q`, "", false},
		{`'\N{DASH}'`, `\N{DASH}`, "", false},
		{"'a\\\nb'", "ab", "", false},
		{`"""a "quoted" b"""`, `a "quoted" b`, "", true},
		{"'''one\ntwo'''", "one\ntwo", "", true},
		{`""""""`, "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := String(tt.text)
			if err != nil {
				t.Fatalf("String(%q) error = %v", tt.text, err)
			}
			if got.Value != tt.want {
				t.Errorf("Value = %q, want %q", got.Value, tt.want)
			}
			if got.Prefix.String() != tt.prefix {
				t.Errorf("Prefix = %q, want %q", got.Prefix, tt.prefix)
			}
			if got.Triple != tt.triple {
				t.Errorf("Triple = %v, want %v", got.Triple, tt.triple)
			}
		})
	}
}

func TestStringBackquote(t *testing.T) {
	got, err := String("`x + 1`")
	if err != nil {
		t.Fatalf("String() error = %v", err)
	}
	if !got.Backquote || got.Value != "x + 1" {
		t.Errorf("String() = %+v", got)
	}
}

func TestStringMalformed(t *testing.T) {
	for _, text := range []string{`'`, `'abc`, `x'a'`, `'\x4'`, `'\U00110000'`, "r`a`"} {
		t.Run(text, func(t *testing.T) {
			if _, err := String(text); !errors.Is(err, ErrMalformed) {
				t.Errorf("String(%q) error = %v, want %v", text, err, ErrMalformed)
			}
		})
	}
}

func TestValue(t *testing.T) {
	src := []byte("x = [0x10, 2.5, 3j, 'hi']\n")
	toks, _ := parser.Tokenize(src)
	var got []string
	for _, tok := range toks {
		switch tok.Kind {
		case parser.TokenInteger, parser.TokenFloat, parser.TokenString:
		default:
			continue
		}
		v, err := Value(src, tok)
		if err != nil {
			t.Fatalf("Value(%q) error = %v", tok.Text(src), err)
		}
		if s, ok := v.(Str); ok {
			got = append(got, s.Value)
			continue
		}
		got = append(got, v.(interface{ String() string }).String())
	}
	want := []string{"16", "2.5", "3j", "hi"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d = %q, want %q", i, got[i], want[i])
		}
	}
	if _, err := Value(src, toks[0]); !errors.Is(err, ErrMalformed) {
		t.Errorf("Value(identifier) error = %v, want %v", err, ErrMalformed)
	}
}
