package parser

import (
	"context"
	"sort"

	"github.com/dhamidi/pyfront/python/grammar"
)

// link records one way an item came to be: prev is the item with the dot
// one symbol earlier, and the symbol between them spans [mid, pos).
type link struct {
	prev *item
	mid  int
}

// item is an Earley item: a production with a dot, the chart position the
// production started at, and the position of the set holding it. c is the
// precedence constraint the production was predicted under.
type item struct {
	prod   *grammar.Production
	dot    int
	origin int
	pos    int
	c      constraint
	links  []link
}

func (it *item) complete() bool {
	return it.dot == len(it.prod.RHS)
}

func (it *item) next() grammar.Symbol {
	return it.prod.RHS[it.dot]
}

func (it *item) addLink(l link) {
	for _, have := range it.links {
		if have == l {
			return
		}
	}
	it.links = append(it.links, l)
}

type itemKey struct {
	prod   int
	dot    int
	origin int
	c      constraint
}

type completeKey struct {
	lhs    grammar.Symbol
	origin int
	c      constraint
}

// waitKey names what an item waits for: a symbol, and for a nonterminal
// the constraint its derivation is predicted under.
type waitKey struct {
	sym grammar.Symbol
	c   constraint
}

// itemSet is the set of items at one chart position.
type itemSet struct {
	items     []*item
	index     map[itemKey]*item
	waiting   map[waitKey][]*item
	complete  map[completeKey][]*item
	predicted map[waitKey]bool
}

func newItemSet() *itemSet {
	return &itemSet{
		index:     make(map[itemKey]*item),
		waiting:   make(map[waitKey][]*item),
		complete:  make(map[completeKey][]*item),
		predicted: make(map[waitKey]bool),
	}
}

// recognizer runs the Earley algorithm over a sequence of terminal symbols.
// Nullable symbols are advanced over at prediction time, so completions of
// empty rules never have to revisit their own set.
//
// Precedence is applied while recognizing: every nonterminal is predicted
// under the constraint its parent puts on it, and operator productions
// that break it in a way a rotation repairs are never predicted. Only
// choices precedence cannot settle, like the declared conflicts, keep more
// than one derivation of a span.
type recognizer struct {
	g        *grammar.Grammar
	prec     *precedence
	input    []grammar.Symbol
	chart    []*itemSet
	count    int
	maxItems int
}

// recognition summarizes a run of the recognizer.
type recognition struct {
	accepted bool
	// furthest is the input position no item could scan past. It equals
	// len(input) when the input ran out before the start symbol completed.
	furthest int
	expected []grammar.Symbol
	// exhausted is set when interpretations from a declared conflict set
	// were all open at the failure point.
	exhausted bool
}

func newRecognizer(g *grammar.Grammar, input []grammar.Symbol, maxItems int) *recognizer {
	return &recognizer{g: g, prec: precedenceOf(g), input: input, maxItems: maxItems}
}

func (r *recognizer) run(ctx context.Context) (recognition, error) {
	n := len(r.input)
	r.chart = make([]*itemSet, n+1)
	r.chart[0] = newItemSet()
	start := r.g.Start()
	r.chart[0].predicted[waitKey{sym: start}] = true
	for _, p := range r.g.Productions(start) {
		r.add(0, p, 0, 0, constraint{}, nil)
	}

	for i := 0; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return recognition{}, err
		}
		set := r.chart[i]
		for k := 0; k < len(set.items); k++ {
			it := set.items[k]
			if it.complete() {
				r.complete(i, it)
			} else if sym := it.next(); !r.g.IsTerminal(sym) {
				r.predict(i, it, r.wants(it))
			}
		}
		if r.maxItems > 0 && r.count > r.maxItems {
			return recognition{}, errTooComplex
		}
		if i == n {
			break
		}
		r.scan(i)
		if r.chart[i+1] == nil {
			return r.fail(i), nil
		}
	}

	if len(r.chart[n].complete[completeKey{start, 0, constraint{}}]) > 0 {
		return recognition{accepted: true, furthest: n}, nil
	}
	return r.fail(n), nil
}

func (r *recognizer) add(pos int, p *grammar.Production, dot, origin int, c constraint, l *link) {
	set := r.chart[pos]
	if set == nil {
		set = newItemSet()
		r.chart[pos] = set
	}
	key := itemKey{p.ID, dot, origin, c}
	if it, ok := set.index[key]; ok {
		if l != nil {
			it.addLink(*l)
		}
		return
	}
	it := &item{prod: p, dot: dot, origin: origin, pos: pos, c: c}
	if l != nil {
		it.links = []link{*l}
	}
	set.index[key] = it
	set.items = append(set.items, it)
	r.count++
	if it.complete() {
		ck := completeKey{p.LHS, origin, c}
		set.complete[ck] = append(set.complete[ck], it)
	} else {
		wk := r.wants(it)
		set.waiting[wk] = append(set.waiting[wk], it)
	}
}

// wants returns what an incomplete item waits for.
func (r *recognizer) wants(it *item) waitKey {
	sym := it.next()
	if r.g.IsTerminal(sym) {
		return waitKey{sym: sym}
	}
	return waitKey{sym: sym, c: r.prec.child(it.prod, it.dot, it.c)}
}

func (r *recognizer) predict(i int, it *item, wk waitKey) {
	set := r.chart[i]
	if !set.predicted[wk] {
		set.predicted[wk] = true
		for _, p := range r.g.Productions(wk.sym) {
			if r.prec.blocks(p, wk.c) {
				continue
			}
			r.add(i, p, 0, i, wk.c, nil)
		}
	}
	if r.g.Nullable(wk.sym) {
		r.add(i, it.prod, it.dot+1, it.origin, it.c, &link{prev: it, mid: i})
	}
}

func (r *recognizer) complete(j int, it *item) {
	origin := r.chart[it.origin]
	wk := waitKey{sym: it.prod.LHS, c: it.c}
	for k := 0; k < len(origin.waiting[wk]); k++ {
		w := origin.waiting[wk][k]
		r.add(j, w.prod, w.dot+1, w.origin, w.c, &link{prev: w, mid: it.origin})
	}
}

func (r *recognizer) scan(i int) {
	for _, it := range r.chart[i].waiting[waitKey{sym: r.input[i]}] {
		r.add(i+1, it.prod, it.dot+1, it.origin, it.c, &link{prev: it, mid: i})
	}
}

func (r *recognizer) fail(f int) recognition {
	set := r.chart[f]
	res := recognition{furthest: f}
	for wk := range set.waiting {
		if r.g.IsTerminal(wk.sym) {
			res.expected = append(res.expected, wk.sym)
		}
	}
	sort.Slice(res.expected, func(a, b int) bool { return res.expected[a] < res.expected[b] })

	open := map[grammar.Symbol]bool{}
	for _, it := range set.items {
		if it.dot > 0 && it.origin < f {
			open[it.prod.LHS] = true
		}
	}
	for _, conflict := range r.g.Conflicts() {
		live := 0
		for _, sym := range conflict {
			if open[sym] {
				live++
			}
		}
		if live > 1 {
			res.exhausted = true
			break
		}
	}
	return res
}
