package parser

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strconv"

	"github.com/dhamidi/pyfront/python/grammar"
)

// region is an ERROR node carved out of a chunk's token stream. from and
// to are the first and last token indexes it covers.
type region struct {
	from, to int
	start    int
	node     *Node
}

// attempt is one recognizer run over the tokens of a chunk that are still
// active.
type attempt struct {
	idx     []int
	trivial bool
	rec     *recognizer
	res     recognition
}

func (a *attempt) ok() bool {
	return a.trivial || a.res.accepted
}

// recovery parses one chunk, cutting error regions out of the token stream
// until the rest is accepted by the grammar.
type recovery struct {
	d        *driver
	toks     []Token
	syms     []grammar.Symbol
	removed  []bool
	regions  []*region
	diags    []Diagnostic
	children []placed
	ambs     []Ambiguity
}

func (d *driver) parseChunk(ctx context.Context, toks []Token, base int) (*recovery, error) {
	p := &recovery{
		d:       d,
		toks:    toks,
		syms:    make([]grammar.Symbol, len(toks)),
		removed: make([]bool, len(toks)),
	}
	for i, t := range toks {
		p.syms[i] = d.terms.symbol(t.Kind)
		if t.Kind == TokenError {
			p.removed[i] = true
			p.addRegion([]int{i}, &Error{Kind: LexicalError, Message: t.Problem.String()})
		}
	}

	cur, err := p.attempt(ctx)
	if err != nil {
		return nil, err
	}
	for round := 0; !cur.ok(); round++ {
		failure := p.describe(cur)
		if round >= d.cfg.rounds {
			d.log.Debugf("giving up on statement at %d after %d recovery rounds", base, round)
			p.giveUp(failure)
			cur = &attempt{trivial: true}
			break
		}
		next, removed, err := p.skip(ctx, cur)
		if err != nil {
			return nil, err
		}
		if next == nil {
			p.giveUp(failure)
			cur = &attempt{trivial: true}
			break
		}
		d.log.Debugf("recovery round %d at %d: skipped %d tokens", round+1, p.toks[removed[0]].Span.Start, len(removed))
		p.addRegion(removed, failure)
		cur = next
	}

	if !cur.trivial {
		sel := newSelector(d.g, cur.rec, p.activeTokens(cur.idx), base, d.log)
		kids, ambs, ok := sel.root()
		if !ok {
			return nil, fmt.Errorf("no derivation for accepted statement at %d", base)
		}
		p.children = kids
		p.ambs = ambs
	}
	for _, r := range p.regions {
		p.children = insertError(p.children, placed{start: r.start, node: r.node})
	}
	sort.SliceStable(p.diags, func(a, b int) bool { return p.diags[a].Span.Start < p.diags[b].Span.Start })
	return p, nil
}

func (p *recovery) active() []int {
	var idx []int
	for i := range p.toks {
		if !p.removed[i] {
			idx = append(idx, i)
		}
	}
	return idx
}

func (p *recovery) activeTokens(idx []int) []Token {
	out := make([]Token, len(idx))
	for k, i := range idx {
		out[k] = p.toks[i]
	}
	return out
}

func (p *recovery) attempt(ctx context.Context) (*attempt, error) {
	a := &attempt{idx: p.active(), trivial: true}
	for _, i := range a.idx {
		if !p.toks[i].Kind.IsStructural() {
			a.trivial = false
			break
		}
	}
	if a.trivial {
		return a, nil
	}
	input := make([]grammar.Symbol, len(a.idx))
	for k, i := range a.idx {
		input[k] = p.syms[i]
	}
	a.rec = newRecognizer(p.d.g, input, p.d.cfg.maxItems)
	res, err := a.rec.run(ctx)
	if err != nil {
		return nil, err
	}
	a.res = res
	return a, nil
}

// failedAt returns the token index an attempt failed at, or len(toks) when
// the statement ended early.
func (p *recovery) failedAt(a *attempt) int {
	if a.res.furthest < len(a.idx) {
		return a.idx[a.res.furthest]
	}
	return len(p.toks)
}

// skip tries the candidate regions for a failed attempt in order: the
// offending token, the rest of its line, and the whole logical line. The
// first candidate after which the statement parses wins; otherwise the one
// that lets parsing get furthest.
func (p *recovery) skip(ctx context.Context, cur *attempt) (*attempt, []int, error) {
	var best *attempt
	var chosen candidate
	bestAt := -1
	for _, cand := range p.candidates(cur) {
		p.mark(cand, true)
		a, err := p.attempt(ctx)
		p.mark(cand, false)
		if err != nil {
			return nil, nil, err
		}
		if a.ok() {
			best, chosen = a, cand
			break
		}
		if at := p.failedAt(a); at > bestAt {
			best, chosen, bestAt = a, cand, at
		}
	}
	if best == nil {
		return nil, nil, nil
	}
	p.mark(chosen, true)
	return best, chosen.tokens, nil
}

func (p *recovery) mark(c candidate, removed bool) {
	for _, i := range c.tokens {
		p.removed[i] = removed
	}
	for _, i := range c.extra {
		p.removed[i] = removed
	}
}

type candidate struct {
	tokens []int
	// extra tokens are removed along with the candidate without being
	// reported: the dedent matching a skipped indent.
	extra []int
}

func (p *recovery) candidates(cur *attempt) []candidate {
	idx := cur.idx
	n := len(idx)
	f := cur.res.furthest
	kind := func(k int) TokenKind { return p.toks[idx[k]].Kind }
	span := func(from, to int) []int { return append([]int(nil), idx[from:to]...) }

	var out []candidate
	add := func(c candidate) {
		if len(c.tokens) == 0 {
			return
		}
		for _, have := range out {
			if slices.Equal(have.tokens, c.tokens) {
				return
			}
		}
		out = append(out, c)
	}

	line := func(at int) candidate {
		ls := at
		for ls > 0 && kind(ls-1) != TokenNewline {
			ls--
		}
		for ls < at && (kind(ls) == TokenIndent || kind(ls) == TokenDedent) {
			ls++
		}
		le := at
		for le < n-1 && kind(le) != TokenNewline {
			le++
		}
		return candidate{tokens: span(ls, le+1)}
	}

	if f >= n {
		if n > 0 {
			add(line(n - 1))
		}
		return out
	}

	single := candidate{tokens: span(f, f+1)}
	if kind(f) == TokenIndent {
		depth := 0
	match:
		for k := f + 1; k < n; k++ {
			switch kind(k) {
			case TokenIndent:
				depth++
			case TokenDedent:
				if depth == 0 {
					single.extra = []int{idx[k]}
					break match
				}
				depth--
			}
		}
	}
	add(single)

	nl := f
	for nl < n && kind(nl) != TokenNewline {
		nl++
	}
	add(candidate{tokens: span(f, nl)})
	add(line(f))
	return out
}

// giveUp turns every remaining token of the chunk into one error region.
func (p *recovery) giveUp(failure *Error) {
	idx := p.active()
	if len(idx) == 0 {
		return
	}
	for _, i := range idx {
		p.removed[i] = true
	}
	p.addRegion(idx, failure)
}

// addTooComplex turns the tokens of an over-budget statement that belong
// to none of its nested statements into one ERROR node.
func (p *recovery) addTooComplex(toks []Token) {
	if !slices.ContainsFunc(toks, func(t Token) bool { return !t.Kind.IsStructural() }) {
		return
	}
	r := &recovery{d: p.d, toks: toks}
	idx := make([]int, len(toks))
	for i := range idx {
		idx[i] = i
	}
	r.addRegion(idx, &Error{Kind: SyntaxError, Message: errTooComplex.Error()})
	reg := r.regions[0]
	p.children = append(p.children, placed{start: reg.start, node: reg.node})
	p.diags = append(p.diags, r.diags...)
}

// describe turns a failed attempt into the error reported for the region
// recovery is about to cut out.
func (p *recovery) describe(a *attempt) *Error {
	err := &Error{Kind: SyntaxError}
	if a.res.exhausted {
		err.Kind = AmbiguityExhausted
	}
	if a.res.furthest < len(a.idx) {
		tok := p.toks[a.idx[a.res.furthest]]
		err.Message = "unexpected " + p.d.describeToken(tok)
	} else {
		err.Message = "incomplete statement"
	}
	for _, sym := range a.res.expected {
		err.Expected = append(err.Expected, p.d.terms.name(sym))
	}
	return err
}

// addRegion creates the ERROR node for tokens that were just removed. Error
// regions lying inside it become its children.
func (p *recovery) addRegion(removed []int, err *Error) {
	from, to := removed[0], removed[len(removed)-1]
	start, end := p.toks[from].Span.Start, p.toks[to].Span.End

	var kids []placed
	var keep []*region
	for _, r := range p.regions {
		if r.from >= from && r.to <= to {
			kids = append(kids, placed{start: r.start, node: r.node})
			continue
		}
		keep = append(keep, r)
	}
	for _, i := range removed {
		tok := p.toks[i]
		if tok.Kind == TokenError || tok.Kind.IsStructural() {
			continue
		}
		kids = append(kids, placed{start: tok.Span.Start, node: p.d.tokenLeaf(tok)})
	}
	sort.SliceStable(kids, func(a, b int) bool { return kids[a].start < kids[b].start })

	node := &Node{Kind: KindError, Named: true, Length: end - start, Error: err}
	for _, k := range kids {
		node.Children = append(node.Children, Child{Offset: k.start - start, Node: k.node})
	}
	p.regions = append(keep, &region{from: from, to: to, start: start, node: node})
	p.diags = append(p.diags, Diagnostic{Error: *err, Span: Span{Start: start, End: end}})
}

// insertError places an ERROR node into the deepest node whose extent
// strictly contains its start, copying the nodes along the path.
func insertError(list []placed, e placed) []placed {
	for k, c := range list {
		if c.start < e.start && e.start < c.start+c.node.Length && !c.node.IsLeaf() {
			out := append([]placed(nil), list...)
			out[k].node = insertInto(c.node, c.start, e)
			return out
		}
	}
	at := sort.Search(len(list), func(k int) bool { return list[k].start >= e.start })
	out := make([]placed, 0, len(list)+1)
	out = append(out, list[:at]...)
	out = append(out, e)
	return append(out, list[at:]...)
}

func insertInto(n *Node, start int, e placed) *Node {
	kids := make([]placed, len(n.Children))
	for k, c := range n.Children {
		kids[k] = placed{field: c.Field, start: start + c.Offset, node: c.Node}
	}
	kids = insertError(kids, e)
	copied := *n
	copied.Children = make([]Child, len(kids))
	for k, c := range kids {
		copied.Children[k] = Child{Field: c.field, Offset: c.start - start, Node: c.node}
	}
	return &copied
}

func (d *driver) describeToken(tok Token) string {
	switch {
	case tok.Kind == TokenNewline:
		return "end of line"
	case tok.Kind == TokenIndent:
		return "indent"
	case tok.Kind == TokenDedent:
		return "dedent"
	case tok.Kind.IsLiteral():
		return strconv.Quote(tok.Kind.String())
	}
	return fmt.Sprintf("%s %q", tok.Kind, tok.Text(d.src))
}
