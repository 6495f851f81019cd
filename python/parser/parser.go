package parser

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"unicode/utf8"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/pyfront/python/grammar"
)

var (
	// ErrInvalidEncoding is returned when the source is not valid UTF-8.
	ErrInvalidEncoding = errors.New("source is not valid UTF-8")

	// errTooComplex stops a recognizer run that needs more items than the
	// configured budget.
	errTooComplex = errors.New("statement too complex to parse")
)

// terminals maps token kinds to the grammar's terminal symbols.
type terminals struct {
	g     *grammar.Grammar
	kinds [literalEnd]grammar.Symbol
	names map[grammar.Symbol]string
}

var (
	pythonTermsOnce sync.Once
	pythonTerms     *terminals
)

func newTerminals(g *grammar.Grammar) *terminals {
	t := &terminals{g: g, names: map[grammar.Symbol]string{}}
	for k := range t.kinds {
		t.kinds[k] = grammar.NoSymbol
	}
	named := map[TokenKind]string{
		TokenNewline:    "_newline",
		TokenIndent:     "_indent",
		TokenDedent:     "_dedent",
		TokenIdentifier: "identifier",
		TokenInteger:    "integer",
		TokenFloat:      "float",
		TokenString:     "string",
	}
	for kind, name := range named {
		t.kinds[kind] = g.Lookup(name)
	}
	for kind := literalStart + 1; kind < literalEnd; kind++ {
		t.kinds[kind] = g.LookupLiteral(kind.String())
	}
	t.names[g.Lookup("_newline")] = "NEWLINE"
	t.names[g.Lookup("_indent")] = "INDENT"
	t.names[g.Lookup("_dedent")] = "DEDENT"
	return t
}

func (t *terminals) symbol(kind TokenKind) grammar.Symbol {
	if kind < 0 || int(kind) >= len(t.kinds) {
		return grammar.NoSymbol
	}
	return t.kinds[kind]
}

// name renders a terminal for an "expected" list.
func (t *terminals) name(sym grammar.Symbol) string {
	if name, ok := t.names[sym]; ok {
		return name
	}
	info := t.g.Symbol(sym)
	if info.Literal {
		return strconv.Quote(info.Name)
	}
	return info.Name
}

// driver turns a source buffer into chunks.
type driver struct {
	g     *grammar.Grammar
	terms *terminals
	src   []byte
	cfg   config
	log   commonlog.Logger
}

func newDriver(src []byte, cfg config) *driver {
	g := grammar.Python()
	pythonTermsOnce.Do(func() { pythonTerms = newTerminals(g) })
	return &driver{g: g, terms: pythonTerms, src: src, cfg: cfg, log: cfg.log}
}

// tokenLeaf returns the leaf a token becomes inside an ERROR node.
func (d *driver) tokenLeaf(tok Token) *Node {
	if tok.Kind.IsLiteral() {
		return &Node{Kind: tok.Kind.String(), Length: tok.Span.Len()}
	}
	return &Node{Kind: tok.Kind.String(), Named: true, Length: tok.Span.Len()}
}

// reuseFunc is consulted at every chunk boundary during a reparse. It
// returns the chunks to append when parsing can stop at offset.
type reuseFunc func(offset int, state ScannerState) ([]chunk, bool)

// run scans and parses chunks from offset on, until the end of input or
// until reuse accepts a boundary.
func (d *driver) run(ctx context.Context, offset int, state ScannerState, reuse reuseFunc) ([]chunk, error) {
	sc := Resume(d.src, offset, state, WithTabWidth(d.cfg.tabWidth), WithComments(d.cfg.comments))
	ch := newChunker(sc)
	var out []chunk
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		at, st := ch.boundary()
		if reuse != nil && len(out) > 0 && !ch.done {
			if rest, ok := reuse(at, st); ok {
				d.log.Debugf("reusing %d statements from offset %d", len(rest), at)
				d.finish(out, at, sc.Comments())
				return append(out, rest...), nil
			}
		}
		toks, start, cstate, ok := ch.collect()
		if !ok {
			break
		}
		c, err := d.parseStatement(ctx, toks, start, cstate)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	d.finish(out, len(d.src), sc.Comments())
	return out, nil
}

// finish closes each chunk's range at the start of the next one, the last
// at end, and hands each comment to the chunk whose range holds it.
func (d *driver) finish(chunks []chunk, end int, comments []Token) {
	for i := range chunks {
		if i+1 < len(chunks) {
			chunks[i].end = chunks[i+1].start
		} else {
			chunks[i].end = end
		}
	}
	k := 0
	for _, t := range comments {
		for k < len(chunks)-1 && t.Span.Start >= chunks[k].end {
			k++
		}
		if k < len(chunks) && t.Span.Start >= chunks[k].start && t.Span.Start < chunks[k].end {
			chunks[k].comments = append(chunks[k].comments, t)
		}
	}
}

func (d *driver) parseStatement(ctx context.Context, toks []Token, start int, state ScannerState) (chunk, error) {
	c := chunk{start: start, state: state}
	if len(toks) == 0 {
		return c, nil
	}
	p, err := d.parseTokens(ctx, toks, start)
	if err != nil {
		return chunk{}, fmt.Errorf("parsing statement at offset %d: %w", start, err)
	}
	c.children = make([]Child, len(p.children))
	for i, k := range p.children {
		c.children[i] = Child{Field: k.field, Offset: k.start, Node: k.node}
	}
	c.diagnostics = p.diags
	c.ambiguities = p.ambs
	return c, nil
}

// parseTokens parses the tokens of one statement. When the statement needs
// more items than the budget allows, its headers become ERROR nodes and
// the statements inside its blocks are parsed one at a time.
func (d *driver) parseTokens(ctx context.Context, toks []Token, base int) (*recovery, error) {
	p, err := d.parseChunk(ctx, toks, base)
	if !errors.Is(err, errTooComplex) {
		return p, err
	}
	d.log.Warningf("statement at %d needs more than %d items, parsing its blocks separately", base, d.cfg.maxItems)

	out := &recovery{d: d}
	for len(toks) > 0 {
		h := slices.IndexFunc(toks, func(t Token) bool { return t.Kind == TokenIndent })
		if h < 0 {
			out.addTooComplex(toks)
			break
		}
		out.addTooComplex(toks[:h])
		m := matchingDedent(toks, h)
		for _, stmt := range splitStatements(toks[h+1 : m]) {
			inner, err := d.parseTokens(ctx, stmt, stmt[0].Span.Start)
			if err != nil {
				return nil, err
			}
			out.children = append(out.children, inner.children...)
			out.diags = append(out.diags, inner.diags...)
			out.ambs = append(out.ambs, inner.ambs...)
		}
		if m == len(toks) {
			break
		}
		toks = toks[m+1:]
	}
	return out, nil
}

// Parse scans and parses a Python source file. A tree is returned for any
// valid UTF-8 input: syntax and lexical errors are reported as ERROR nodes
// and diagnostics. The error is non-nil only for invalid encoding or
// cancellation of ctx.
func Parse(ctx context.Context, src []byte, opts ...Option) (*Tree, error) {
	if !utf8.Valid(src) {
		return nil, ErrInvalidEncoding
	}
	cfg := newConfig(opts)
	d := newDriver(src, cfg)
	chunks, err := d.run(ctx, 0, NewScannerState(), nil)
	if err != nil {
		return nil, err
	}
	d.log.Debugf("parsed %d bytes into %d statements", len(src), len(chunks))
	return newTree(src, chunks, cfg), nil
}
