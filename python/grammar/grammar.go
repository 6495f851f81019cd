// Package grammar holds the declarative rule table of the language and turns
// it into the flat production list consumed by the parse driver.
//
// A Definition is what grammar authors write: named rules built from the
// combinators in this package, precedence annotations, inline markers and
// conflict sets. Compile normalizes a Definition into a Grammar: every
// alternative becomes a Production over integer symbols, repetitions become
// hidden left-recursive auxiliary rules and inline rules are substituted
// into the rules that reference them.
package grammar

import (
	"fmt"
	"sort"
	"strings"
)

// Rule is a named production in a Definition.
type Rule struct {
	Name string
	Body Expr
}

// Definition is the hand-authored grammar declaration.
type Definition struct {
	Name  string
	Start string

	// Externals are terminals synthesized by the scanner rather than spelled
	// in the source (line structure tokens).
	Externals []string

	// Terminals are named lexical classes recognized by the classifier.
	Terminals []string

	// Extras may appear between any two tokens and never reach the parser.
	Extras []string

	// Inline rules are substituted at their use sites and never produce
	// a node of their own.
	Inline []string

	// Conflicts lists sets of rules that are knowingly ambiguous at the
	// same input and are resolved by generalized exploration.
	Conflicts [][]string

	Rules []Rule
}

// Rule returns the rule with the given name.
func (d *Definition) Rule(name string) (Rule, bool) {
	for _, r := range d.Rules {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}

// Symbol identifies a terminal or nonterminal of a compiled Grammar.
type Symbol int

// NoSymbol is returned by lookups that fail.
const NoSymbol Symbol = -1

// SymbolInfo describes one symbol of a compiled Grammar.
type SymbolInfo struct {
	Name     string
	Terminal bool
	// Literal terminals are matched by spelling and appear in trees as
	// anonymous leaves.
	Literal bool
	// Hidden symbols never produce a node; their children are spliced into
	// the parent.
	Hidden bool
	// Aux marks the nonterminals generated for repetitions.
	Aux bool
	// Leaf marks visible rules whose body is a single literal; they become
	// named leaves.
	Leaf     bool
	Nullable bool
}

// Production is one normalized alternative of a nonterminal.
type Production struct {
	ID      int
	LHS     Symbol
	RHS     []Symbol
	Fields  []string
	Aliases []string
	Prec    int
	Assoc   Assoc
	HasPrec bool
	// Index is the position of this alternative among those of LHS, in
	// declaration order.
	Index int
}

// Grammar is a compiled, read-only Definition. It is safe for concurrent use.
type Grammar struct {
	name        string
	start       Symbol
	symbols     []SymbolInfo
	named       map[string]Symbol
	literals    map[string]Symbol
	productions []*Production
	byLHS       [][]*Production
	conflicts   [][]Symbol
	def         *Definition
}

func (g *Grammar) Name() string { return g.name }

func (g *Grammar) Start() Symbol { return g.start }

// Definition returns the declaration the grammar was compiled from.
func (g *Grammar) Definition() *Definition { return g.def }

func (g *Grammar) SymbolCount() int { return len(g.symbols) }

func (g *Grammar) Symbol(s Symbol) SymbolInfo { return g.symbols[s] }

func (g *Grammar) IsTerminal(s Symbol) bool { return g.symbols[s].Terminal }

func (g *Grammar) Nullable(s Symbol) bool { return g.symbols[s].Nullable }

// Lookup finds a rule, aux rule or named terminal by name.
func (g *Grammar) Lookup(name string) Symbol {
	if s, ok := g.named[name]; ok {
		return s
	}
	return NoSymbol
}

// LookupLiteral finds the terminal matched by the given spelling.
func (g *Grammar) LookupLiteral(text string) Symbol {
	if s, ok := g.literals[text]; ok {
		return s
	}
	return NoSymbol
}

// Productions returns the alternatives of a nonterminal in declaration order.
func (g *Grammar) Productions(s Symbol) []*Production {
	if int(s) >= len(g.byLHS) {
		return nil
	}
	return g.byLHS[s]
}

func (g *Grammar) AllProductions() []*Production { return g.productions }

// Conflicts returns the declared conflict sets.
func (g *Grammar) Conflicts() [][]Symbol { return g.conflicts }

// InConflict reports whether a and b are members of one declared conflict set.
func (g *Grammar) InConflict(a, b Symbol) bool {
	for _, set := range g.conflicts {
		var hasA, hasB bool
		for _, s := range set {
			hasA = hasA || s == a
			hasB = hasB || s == b
		}
		if hasA && hasB && a != b {
			return true
		}
	}
	return false
}

// NodeKinds returns the sorted names of every node kind a tree built from
// this grammar can contain, aliases included.
func (g *Grammar) NodeKinds() []string {
	seen := map[string]bool{}
	for _, info := range g.symbols {
		if info.Hidden || info.Literal {
			continue
		}
		seen[info.Name] = true
	}
	for _, p := range g.productions {
		for _, a := range p.Aliases {
			if a != "" {
				seen[a] = true
			}
		}
	}
	kinds := make([]string, 0, len(seen))
	for k := range seen {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// FieldNames returns the sorted set of field names used by the grammar.
func (g *Grammar) FieldNames() []string {
	seen := map[string]bool{}
	for _, p := range g.productions {
		for _, f := range p.Fields {
			if f != "" {
				seen[f] = true
			}
		}
	}
	names := make([]string, 0, len(seen))
	for f := range seen {
		names = append(names, f)
	}
	sort.Strings(names)
	return names
}

// RuleNames returns the names of the declared rules, inline rules included,
// in declaration order.
func (g *Grammar) RuleNames() []string {
	names := make([]string, len(g.def.Rules))
	for i, r := range g.def.Rules {
		names[i] = r.Name
	}
	return names
}

// ProductionString renders p as "lhs -> a b c" for logs and diagnostics.
func (g *Grammar) ProductionString(p *Production) string {
	var sb strings.Builder
	sb.WriteString(g.symbols[p.LHS].Name)
	sb.WriteString(" ->")
	if len(p.RHS) == 0 {
		sb.WriteString(" ε")
	}
	for i, s := range p.RHS {
		sb.WriteByte(' ')
		if p.Fields[i] != "" {
			sb.WriteString(p.Fields[i])
			sb.WriteByte(':')
		}
		info := g.symbols[s]
		if info.Literal {
			fmt.Fprintf(&sb, "%q", info.Name)
		} else {
			sb.WriteString(info.Name)
		}
		if p.Aliases[i] != "" {
			sb.WriteString("@")
			sb.WriteString(p.Aliases[i])
		}
	}
	if p.HasPrec {
		fmt.Fprintf(&sb, " [prec %d %s]", p.Prec, p.Assoc)
	}
	return sb.String()
}
