package parser

import (
	"fmt"
	"sync"

	"github.com/dhamidi/pyfront/python/grammar"
)

// bound is a precedence requirement imposed on a subtree by the operator
// next to it. group names the set of operator productions that may trade
// places with that operator; zero is the empty set.
type bound struct {
	active bool
	prec   int
	strict bool
	group  int
}

func (b bound) allows(prec int) bool {
	if !b.active {
		return true
	}
	if b.strict {
		return prec > b.prec
	}
	return prec >= b.prec
}

// constraint holds the bounds on the edges of a subtree. left is set by an
// operator to the subtree's left, which makes the subtree its right
// operand; right is set by an operator to its right.
type constraint struct {
	left  bound
	right bound
}

// precedence answers the questions the recognizer and the selector ask
// about the operator productions of a grammar.
type precedence struct {
	g *grammar.Grammar
	// firstGroup and lastGroup are the groups of the bounds a production
	// puts on its first and last child.
	firstGroup []int
	lastGroup  []int
	swaps      []map[int]bool
}

var precedences sync.Map // *grammar.Grammar -> *precedence

func precedenceOf(g *grammar.Grammar) *precedence {
	if pr, ok := precedences.Load(g); ok {
		return pr.(*precedence)
	}
	pr, _ := precedences.LoadOrStore(g, newPrecedence(g))
	return pr.(*precedence)
}

// newPrecedence finds, for every operator production p and each edge, the
// operator productions c that can be rotated with p: c as p's right
// operand, c(y, z) under p(x, _), rewrites to c(p(x, y), z), and
// symmetrically on the left. A rotation must keep the tree derivable.
func newPrecedence(g *grammar.Grammar) *precedence {
	n := len(g.AllProductions())
	pr := &precedence{
		g:          g,
		firstGroup: make([]int, n),
		lastGroup:  make([]int, n),
		swaps:      []map[int]bool{nil},
	}
	closure := unitClosures(g)
	contexts := contextSymbols(g)
	replaces := func(a, b grammar.Symbol) bool {
		for _, s := range contexts {
			if closure[s][a] && !closure[s][b] {
				return false
			}
		}
		return true
	}

	interned := map[string]int{}
	group := func(ids []int) int {
		if len(ids) == 0 {
			return 0
		}
		key := fmt.Sprint(ids)
		if id, ok := interned[key]; ok {
			return id
		}
		set := make(map[int]bool, len(ids))
		for _, id := range ids {
			set[id] = true
		}
		pr.swaps = append(pr.swaps, set)
		interned[key] = len(pr.swaps) - 1
		return len(pr.swaps) - 1
	}

	var ops []*grammar.Production
	for _, p := range g.AllProductions() {
		if p.HasPrec && len(p.RHS) >= 2 {
			ops = append(ops, p)
		}
	}
	for _, p := range ops {
		first, last := p.RHS[0], p.RHS[len(p.RHS)-1]
		var asLeft, asRight []int
		for _, c := range ops {
			cFirst, cLast := c.RHS[0], c.RHS[len(c.RHS)-1]
			if !replaces(p.LHS, c.LHS) {
				continue
			}
			if closure[cFirst][p.LHS] && closure[last][cFirst] {
				asRight = append(asRight, c.ID)
			}
			if closure[cLast][p.LHS] && closure[first][cLast] {
				asLeft = append(asLeft, c.ID)
			}
		}
		pr.firstGroup[p.ID] = group(asLeft)
		pr.lastGroup[p.ID] = group(asRight)
	}
	return pr
}

// unitClosures returns, for every symbol, the symbols it derives through
// single-symbol productions, itself included.
func unitClosures(g *grammar.Grammar) []map[grammar.Symbol]bool {
	out := make([]map[grammar.Symbol]bool, g.SymbolCount())
	for s := range out {
		sym := grammar.Symbol(s)
		seen := map[grammar.Symbol]bool{sym: true}
		stack := []grammar.Symbol{sym}
		for len(stack) > 0 {
			x := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if g.IsTerminal(x) {
				continue
			}
			for _, p := range g.Productions(x) {
				if len(p.RHS) == 1 && !seen[p.RHS[0]] {
					seen[p.RHS[0]] = true
					stack = append(stack, p.RHS[0])
				}
			}
		}
		out[s] = seen
	}
	return out
}

// contextSymbols lists the symbols a unit chain can hang from: the start
// symbol and every nonterminal used in a longer production.
func contextSymbols(g *grammar.Grammar) []grammar.Symbol {
	seen := map[grammar.Symbol]bool{g.Start(): true}
	out := []grammar.Symbol{g.Start()}
	for _, p := range g.AllProductions() {
		if len(p.RHS) < 2 {
			continue
		}
		for _, s := range p.RHS {
			if !g.IsTerminal(s) && !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// child returns the constraint p places on its child idx when p itself is
// under c. Operators bind their edge operands by their own precedence.
// Hidden rules without a precedence hand their bounds down to the child
// on the matching edge; only a single-symbol rule keeps the rotation
// group, since a longer one stands between the operator and its operand.
func (pr *precedence) child(p *grammar.Production, idx int, c constraint) constraint {
	n := len(p.RHS)
	if p.HasPrec {
		if n < 2 {
			return constraint{}
		}
		switch idx {
		case 0:
			return constraint{right: bound{active: true, prec: p.Prec, strict: p.Assoc == grammar.AssocRight, group: pr.firstGroup[p.ID]}}
		case n - 1:
			return constraint{left: bound{active: true, prec: p.Prec, strict: p.Assoc == grammar.AssocLeft, group: pr.lastGroup[p.ID]}}
		}
		return constraint{}
	}
	if !pr.g.Symbol(p.LHS).Hidden {
		return constraint{}
	}
	if n == 1 {
		return c
	}
	switch idx {
	case 0:
		b := c.left
		b.group = 0
		return constraint{left: b}
	case n - 1:
		b := c.right
		b.group = 0
		return constraint{right: b}
	}
	return constraint{}
}

// blocks reports whether p can be kept out of the chart under c: it breaks
// a bound and can trade places with the operator that set it, so the
// rotated tree covers the same tokens without the violation.
func (pr *precedence) blocks(p *grammar.Production, c constraint) bool {
	if !p.HasPrec || len(p.RHS) < 2 {
		return false
	}
	return pr.rotates(p, c.left) || pr.rotates(p, c.right)
}

func (pr *precedence) rotates(p *grammar.Production, b bound) bool {
	return b.group != 0 && !b.allows(p.Prec) && pr.swaps[b.group][p.ID]
}

// violations counts the bounds of c that p breaks.
func violations(p *grammar.Production, c constraint) int {
	if !p.HasPrec {
		return 0
	}
	n := 0
	if !c.left.allows(p.Prec) {
		n++
	}
	if !c.right.allows(p.Prec) {
		n++
	}
	return n
}
