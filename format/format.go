package format

import (
	"encoding"
	"fmt"
	"io"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/dhamidi/pyfront/python/parser"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(tree *parser.Tree) error
}

// Options tune what the tree encoders emit.
type Options struct {
	// Positions adds byte spans to S-expressions.
	Positions bool
	// Anonymous keeps keyword and punctuation leaves in JSON and YAML output.
	Anonymous bool
}

var encoders = map[string]func(io.Writer, Options) Encoder{
	"sexp": func(w io.Writer, o Options) Encoder { return NewSExprEncoder(w, o.Positions) },
	"json": func(w io.Writer, o Options) Encoder { return NewJSONEncoder(w, o.Anonymous) },
	"yaml": func(w io.Writer, o Options) Encoder { return NewYAMLEncoder(w, o.Anonymous) },
}

// Names lists the registered tree formats.
func Names() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns the encoder registered under name. Unknown names fail with
// an error suggesting the closest registered format.
func New(name string, w io.Writer, opts Options) (Encoder, error) {
	if mk, ok := encoders[name]; ok {
		return mk(w, opts), nil
	}
	if matches := fuzzy.RankFindFold(name, Names()); len(matches) > 0 {
		sort.Sort(matches)
		return nil, fmt.Errorf("unknown format: %s (did you mean %s?)", name, matches[0].Target)
	}
	return nil, fmt.Errorf("unknown format: %s", name)
}
