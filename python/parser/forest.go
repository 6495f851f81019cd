package parser

import (
	"github.com/tliron/commonlog"

	"github.com/dhamidi/pyfront/python/grammar"
)

// frag is a persistent list of child placements, linked backwards. A frag
// either places one node at an absolute byte offset or splices a whole
// sub-list, labelling with field every spliced child that has no field.
type frag struct {
	prev  *frag
	node  *Node
	start int
	sub   *frag
	field string
}

type placed struct {
	field string
	start int
	node  *Node
}

func flatten(f *frag, inherited string, out []placed) []placed {
	if f == nil {
		return out
	}
	out = flatten(f.prev, inherited, out)
	field := f.field
	if field == "" {
		field = inherited
	}
	if f.node != nil {
		return append(out, placed{field: field, start: f.start, node: f.node})
	}
	return flatten(f.sub, field, out)
}

// spine is the chain of symbols down the leftmost edge of a derivation.
type spine struct {
	sym  grammar.Symbol
	next *spine
}

// ambTree collects ambiguities so that merging two subtrees' lists is O(1).
type ambTree struct {
	left, right *ambTree
	amb         *Ambiguity
}

func mergeAmb(a, b *ambTree) *ambTree {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return &ambTree{left: a, right: b}
}

func (t *ambTree) collect(out []Ambiguity) []Ambiguity {
	if t == nil {
		return out
	}
	out = t.left.collect(out)
	if t.amb != nil {
		out = append(out, *t.amb)
	}
	return t.right.collect(out)
}

// deriv is the best derivation found for a symbol over a span, or for a
// production prefix over a span.
type deriv struct {
	ok    bool
	cost  int
	prod  *grammar.Production
	frags *frag
	spine *spine
	// below is the derivation of the only child of a unit production.
	below *deriv
	amb   *ambTree
}

var noDeriv = &deriv{}

var emptyDeriv = &deriv{ok: true}

type spanKey struct {
	sym  grammar.Symbol
	i, j int
	c    constraint
}

type seqKey struct {
	it *item
	c  constraint
}

// selector picks one derivation out of a recognized chart. Among the
// derivations of a symbol over a span it prefers, in order: fewer
// precedence violations, the higher precedence at the point where two
// derivations diverge, and the alternative declared first.
type selector struct {
	g     *grammar.Grammar
	prec  *precedence
	chart []*itemSet
	input []grammar.Symbol
	toks  []Token
	// base is the byte offset used for empty nodes when there are no tokens.
	base int
	log  commonlog.Logger
	memo map[spanKey]*deriv
	seqs map[seqKey]*deriv
}

func newSelector(g *grammar.Grammar, r *recognizer, toks []Token, base int, log commonlog.Logger) *selector {
	return &selector{
		g:     g,
		prec:  r.prec,
		chart: r.chart,
		input: r.input,
		toks:  toks,
		base:  base,
		log:   log,
		memo:  make(map[spanKey]*deriv),
		seqs:  make(map[seqKey]*deriv),
	}
}

// root returns the children of the start symbol's node over the whole input
// and the ambiguities met on the way. ok is false when no derivation exists.
func (s *selector) root() ([]placed, []Ambiguity, bool) {
	d := s.build(s.g.Start(), 0, len(s.input), constraint{})
	if !d.ok {
		return nil, nil, false
	}
	var kids []placed
	if d.frags != nil && d.frags.prev == nil && d.frags.node != nil && d.frags.node.Kind == s.g.Symbol(s.g.Start()).Name {
		top := d.frags.node
		for _, c := range top.Children {
			kids = append(kids, placed{field: c.Field, start: d.frags.start + c.Offset, node: c.Node})
		}
	} else {
		kids = flatten(d.frags, "", nil)
	}
	return kids, dedupeAmbiguities(d.amb.collect(nil)), true
}

func dedupeAmbiguities(in []Ambiguity) []Ambiguity {
	type key struct {
		rule string
		span Span
	}
	seen := map[key]bool{}
	var out []Ambiguity
	for _, a := range in {
		k := key{a.Rule, a.Span}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, a)
	}
	return out
}

func (s *selector) offsetAt(i int) int {
	switch {
	case i < len(s.toks):
		return s.toks[i].Span.Start
	case len(s.toks) > 0:
		return s.toks[len(s.toks)-1].Span.End
	}
	return s.base
}

func (s *selector) span(i, j int) Span {
	start := s.offsetAt(i)
	if j <= i {
		return Span{start, start}
	}
	return Span{start, s.toks[j-1].Span.End}
}

func (s *selector) leaf(sym grammar.Symbol, i, j int) *deriv {
	if j != i+1 || s.input[i] != sym {
		return noDeriv
	}
	d := &deriv{ok: true, spine: &spine{sym: sym}}
	info := s.g.Symbol(sym)
	if info.Hidden {
		return d
	}
	tok := s.toks[i]
	d.frags = &frag{
		node:  &Node{Kind: info.Name, Named: !info.Literal, Length: tok.Span.Len()},
		start: tok.Span.Start,
	}
	return d
}

// makeNode turns a list of child placements into a visible node. Leaf rules
// keep their extent but drop their anonymous children.
func (s *selector) makeNode(kind string, leaf bool, f *frag, i int) *frag {
	kids := flatten(f, "", nil)
	start := s.offsetAt(i)
	end := start
	if len(kids) > 0 {
		start = kids[0].start
		last := kids[len(kids)-1]
		end = last.start + last.node.Length
	}
	n := &Node{Kind: kind, Named: true, Length: end - start}
	if !leaf && len(kids) > 0 {
		n.Children = make([]Child, len(kids))
		for k, p := range kids {
			n.Children[k] = Child{Field: p.field, Offset: p.start - start, Node: p.node}
		}
	}
	return &frag{node: n, start: start}
}

func (s *selector) build(sym grammar.Symbol, i, j int, c constraint) *deriv {
	info := s.g.Symbol(sym)
	if info.Terminal {
		return s.leaf(sym, i, j)
	}
	key := spanKey{sym, i, j, c}
	if d, ok := s.memo[key]; ok {
		return d
	}
	s.memo[key] = noDeriv

	var cands []*deriv
	for _, it := range s.chart[j].complete[completeKey{sym, i, c}] {
		seq := s.sequence(it, c)
		if !seq.ok {
			continue
		}
		cand := &deriv{
			ok:    true,
			cost:  seq.cost + violations(it.prod, c),
			prod:  it.prod,
			frags: seq.frags,
			spine: &spine{sym: sym, next: seq.spine},
			amb:   seq.amb,
		}
		if len(it.prod.RHS) == 1 {
			cand.below = seq.below
		}
		cands = append(cands, cand)
	}
	if len(cands) == 0 {
		return noDeriv
	}

	best := cands[0]
	for _, cand := range cands[1:] {
		if s.better(cand, best) {
			best = cand
		}
	}
	var rivals []*deriv
	for _, cand := range cands {
		if cand != best && cand.cost == best.cost && !s.precedenceDecides(best, cand) {
			rivals = append(rivals, cand)
		}
	}
	if len(rivals) > 0 {
		best.amb = mergeAmb(best.amb, &ambTree{amb: s.ambiguity(sym, i, j, best, rivals)})
	}

	if !info.Hidden {
		best.frags = s.makeNode(info.Name, info.Leaf, best.frags, i)
	}
	s.memo[key] = best
	return best
}

func (s *selector) better(a, b *deriv) bool {
	if a.cost != b.cost {
		return a.cost < b.cost
	}
	if pa, pb, ok := divergingPrec(a, b); ok && pa != pb {
		return pa > pb
	}
	return a.prod.Index < b.prod.Index
}

func (s *selector) precedenceDecides(a, b *deriv) bool {
	pa, pb, ok := divergingPrec(a, b)
	return ok && pa != pb
}

// divergingPrec compares two derivations of the same span at the point
// where they part: when both are unit chains that meet in a shared
// sub-derivation, the productions directly above the meeting point are
// compared, otherwise the top productions are. ok is false unless both
// compared productions declare a precedence.
func divergingPrec(a, b *deriv) (int, int, bool) {
	pa, pb := a.prod, b.prod
	seen := map[*deriv]*deriv{}
	for d, above := a.below, a; d != nil; d, above = d.below, d {
		seen[d] = above
	}
	for d, above := b.below, b; d != nil; d, above = d.below, d {
		if aboveA, ok := seen[d]; ok {
			pa, pb = aboveA.prod, above.prod
			break
		}
	}
	if pa == nil || pb == nil || !pa.HasPrec || !pb.HasPrec {
		return 0, 0, false
	}
	return pa.Prec, pb.Prec, true
}

// sequence returns the best derivation of the symbols before the dot of it.
func (s *selector) sequence(it *item, c constraint) *deriv {
	if it.dot == 0 {
		return emptyDeriv
	}
	key := seqKey{it, c}
	if d, ok := s.seqs[key]; ok {
		return d
	}
	s.seqs[key] = noDeriv

	p := it.prod
	k := it.dot - 1
	sym := p.RHS[k]
	cc := s.prec.child(p, k, c)

	var best, bestChild, bestPrev *deriv
	bestMid := -1
	tied := false
	for _, l := range it.links {
		prev := s.sequence(l.prev, c)
		if !prev.ok {
			continue
		}
		child := s.build(sym, l.mid, it.pos, cc)
		if !child.ok {
			continue
		}
		cost := prev.cost + child.cost
		switch {
		case best == nil || cost < best.cost:
			tied = false
		case cost == best.cost:
			tied = true
			if l.mid < bestMid {
				continue
			}
		default:
			continue
		}
		best = &deriv{ok: true, cost: cost}
		bestChild, bestPrev, bestMid = child, prev, l.mid
	}
	if best == nil {
		return noDeriv
	}

	best.amb = mergeAmb(bestPrev.amb, bestChild.amb)
	if tied {
		best.amb = mergeAmb(best.amb, &ambTree{amb: &Ambiguity{
			Span:         s.span(it.origin, it.pos),
			Rule:         s.g.Symbol(p.LHS).Name,
			Alternatives: []string{s.g.ProductionString(p)},
		}})
	}
	if k == 0 {
		best.spine = bestChild.spine
		best.below = bestChild
	} else {
		best.spine = bestPrev.spine
	}

	childFrags := bestChild.frags
	if alias := p.Aliases[k]; alias != "" {
		childFrags = s.alias(childFrags, alias, bestMid)
	}
	best.frags = bestPrev.frags
	if childFrags != nil {
		best.frags = &frag{prev: bestPrev.frags, sub: childFrags, field: p.Fields[k]}
	}
	s.seqs[key] = best
	return best
}

// alias renames a child. A hidden child becomes a visible node of its own.
func (s *selector) alias(f *frag, name string, i int) *frag {
	if f != nil && f.prev == nil && f.node != nil {
		n := *f.node
		n.Kind = name
		n.Named = true
		return &frag{node: &n, start: f.start}
	}
	return s.makeNode(name, false, f, i)
}

func (s *selector) ambiguity(sym grammar.Symbol, i, j int, best *deriv, rivals []*deriv) *Ambiguity {
	a := &Ambiguity{
		Span:         s.span(i, j),
		Rule:         s.g.Symbol(sym).Name,
		Alternatives: []string{s.g.ProductionString(best.prod)},
	}
	for _, r := range rivals {
		a.Alternatives = append(a.Alternatives, s.g.ProductionString(r.prod))
		if s.declared(best.spine, r.spine) {
			a.Declared = true
		}
	}
	if a.Declared {
		s.log.Debugf("declared ambiguity in %s at %d-%d, chose %s", a.Rule, a.Span.Start, a.Span.End, a.Alternatives[0])
	} else {
		s.log.Warningf("undeclared ambiguity in %s at %d-%d: %v", a.Rule, a.Span.Start, a.Span.End, a.Alternatives)
	}
	return a
}

// declared reports whether the two leftmost spines pass through members of
// one declared conflict set.
func (s *selector) declared(a, b *spine) bool {
	for x := a; x != nil; x = x.next {
		for y := b; y != nil; y = y.next {
			if s.g.InConflict(x.sym, y.sym) {
				return true
			}
		}
	}
	return false
}
