package parser

import (
	"slices"
	"testing"

	"github.com/dhamidi/pyfront/python/grammar"
)

func TestPrecedenceBlocks(t *testing.T) {
	g := grammar.Python()
	pr := precedenceOf(g)
	op := func(lhs, lit string) *grammar.Production {
		t.Helper()
		for _, p := range g.Productions(g.Lookup(lhs)) {
			if slices.Contains(p.RHS, g.LookupLiteral(lit)) {
				return p
			}
		}
		t.Fatalf("no %s production with %q", lhs, lit)
		return nil
	}
	plus := op("binary_operator", "+")
	times := op("binary_operator", "*")
	and := op("boolean_operator", "and")
	or := op("boolean_operator", "or")
	not := op("not_operator", "not")
	compare := g.Productions(g.Lookup("comparison_operator"))[0]

	left := func(p *grammar.Production) constraint { return pr.child(p, 0, constraint{}) }
	right := func(p *grammar.Production) constraint { return pr.child(p, len(p.RHS)-1, constraint{}) }

	tests := []struct {
		name  string
		under constraint
		p     *grammar.Production
		want  bool
	}{
		{"sum right of sum", right(plus), plus, true},
		{"sum left of sum", left(plus), plus, false},
		{"product right of sum", right(plus), times, false},
		{"sum right of product", right(times), plus, true},
		{"sum left of product", left(times), plus, true},
		{"or right of and", right(and), or, true},
		{"and right of or", right(or), and, false},
		{"comparison right of and", right(and), compare, false},
		{"not right of or", right(or), not, false},
		{"not left of or", left(or), not, true},
		{"sum at the top", constraint{}, plus, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pr.blocks(tt.p, tt.under); got != tt.want {
				t.Errorf("blocks(%s) = %v, want %v", g.ProductionString(tt.p), got, tt.want)
			}
		})
	}
}

func TestPrecedenceChildKeepsGroupThroughUnitRules(t *testing.T) {
	g := grammar.Python()
	pr := precedenceOf(g)
	var unit *grammar.Production
	for _, p := range g.Productions(g.Lookup("_primary_expression")) {
		if len(p.RHS) == 1 && p.RHS[0] == g.Lookup("binary_operator") {
			unit = p
		}
	}
	if unit == nil {
		t.Fatal("no _primary_expression -> binary_operator production")
	}
	c := constraint{left: bound{active: true, prec: 16, strict: true, group: 1}}
	if got := pr.child(unit, 0, c); got != c {
		t.Errorf("child() = %+v, want %+v", got, c)
	}
}
