package grammar

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidGrammar is wrapped by every error Compile returns.
var ErrInvalidGrammar = errors.New("invalid grammar")

type item struct {
	sym   Symbol
	field string
	alias string
}

type alt struct {
	items   []item
	prec    int
	assoc   Assoc
	hasPrec bool
}

func (a alt) concat(b alt) alt {
	out := alt{
		items:   make([]item, 0, len(a.items)+len(b.items)),
		prec:    a.prec,
		assoc:   a.assoc,
		hasPrec: a.hasPrec,
	}
	out.items = append(out.items, a.items...)
	out.items = append(out.items, b.items...)
	if b.hasPrec {
		out.prec, out.assoc, out.hasPrec = b.prec, b.assoc, true
	}
	return out
}

func (a alt) key() string {
	var sb strings.Builder
	for _, it := range a.items {
		fmt.Fprintf(&sb, "%d/%s/%s ", it.sym, it.field, it.alias)
	}
	if a.hasPrec {
		fmt.Fprintf(&sb, "|%d%s", a.prec, a.assoc)
	}
	return sb.String()
}

type compiler struct {
	def      *Definition
	g        *Grammar
	inline   map[string]Rule
	visiting map[string]bool
	repeats  map[string]int
	seen     map[Symbol]map[string]bool
}

// Compile validates def and normalizes it into a Grammar.
func Compile(def *Definition) (*Grammar, error) {
	c := &compiler{
		def: def,
		g: &Grammar{
			name:     def.Name,
			named:    map[string]Symbol{},
			literals: map[string]Symbol{},
			def:      def,
		},
		inline:   map[string]Rule{},
		visiting: map[string]bool{},
		repeats:  map[string]int{},
		seen:     map[Symbol]map[string]bool{},
	}
	if err := c.declare(); err != nil {
		return nil, err
	}
	for _, r := range def.Rules {
		if _, ok := c.inline[r.Name]; ok {
			continue
		}
		alts, err := c.expand(r.Name, r.Body)
		if err != nil {
			return nil, err
		}
		c.addAlternatives(c.g.named[r.Name], alts)
	}
	for _, set := range def.Conflicts {
		syms := make([]Symbol, 0, len(set))
		for _, name := range set {
			s, ok := c.g.named[name]
			if !ok {
				return nil, fmt.Errorf("%w: conflict references unknown rule %q", ErrInvalidGrammar, name)
			}
			syms = append(syms, s)
		}
		c.g.conflicts = append(c.g.conflicts, syms)
	}
	c.computeNullable()
	return c.g, nil
}

// MustCompile is like Compile but panics on error. It is meant for
// statically declared grammars.
func MustCompile(def *Definition) *Grammar {
	g, err := Compile(def)
	if err != nil {
		panic(err)
	}
	return g
}

func (c *compiler) declare() error {
	for _, name := range c.def.Inline {
		r, ok := c.def.Rule(name)
		if !ok {
			return fmt.Errorf("%w: inline rule %q is not defined", ErrInvalidGrammar, name)
		}
		c.inline[name] = r
	}
	for _, name := range c.def.Externals {
		if err := c.terminal(name); err != nil {
			return err
		}
	}
	for _, name := range c.def.Terminals {
		if err := c.terminal(name); err != nil {
			return err
		}
	}
	for _, name := range c.def.Extras {
		if _, ok := c.g.named[name]; !ok {
			return fmt.Errorf("%w: extra %q is not a declared terminal", ErrInvalidGrammar, name)
		}
	}
	for _, r := range c.def.Rules {
		if _, ok := c.inline[r.Name]; ok {
			continue
		}
		if _, dup := c.g.named[r.Name]; dup {
			return fmt.Errorf("%w: rule %q defined twice", ErrInvalidGrammar, r.Name)
		}
		_, leaf := r.Body.(LiteralExpr)
		c.add(SymbolInfo{
			Name:   r.Name,
			Hidden: strings.HasPrefix(r.Name, "_"),
			Leaf:   leaf && !strings.HasPrefix(r.Name, "_"),
		})
	}
	start, ok := c.g.named[c.def.Start]
	if !ok || c.g.symbols[start].Terminal {
		return fmt.Errorf("%w: start rule %q is not defined", ErrInvalidGrammar, c.def.Start)
	}
	c.g.start = start
	return nil
}

func (c *compiler) add(info SymbolInfo) Symbol {
	s := Symbol(len(c.g.symbols))
	c.g.symbols = append(c.g.symbols, info)
	c.g.byLHS = append(c.g.byLHS, nil)
	if info.Literal {
		c.g.literals[info.Name] = s
	} else {
		c.g.named[info.Name] = s
	}
	return s
}

func (c *compiler) terminal(name string) error {
	if _, dup := c.g.named[name]; dup {
		return fmt.Errorf("%w: terminal %q declared twice", ErrInvalidGrammar, name)
	}
	c.add(SymbolInfo{Name: name, Terminal: true, Hidden: strings.HasPrefix(name, "_")})
	return nil
}

func (c *compiler) literal(text string) Symbol {
	if s, ok := c.g.literals[text]; ok {
		return s
	}
	return c.add(SymbolInfo{Name: text, Terminal: true, Literal: true})
}

func (c *compiler) expand(rule string, e Expr) ([]alt, error) {
	switch e := e.(type) {
	case LiteralExpr:
		if e.Text == "" {
			return nil, fmt.Errorf("%w: rule %q has an empty literal", ErrInvalidGrammar, rule)
		}
		return []alt{{items: []item{{sym: c.literal(e.Text)}}}}, nil

	case SymbolExpr:
		if r, ok := c.inline[e.Name]; ok {
			if c.visiting[e.Name] {
				return nil, fmt.Errorf("%w: inline rule %q refers to itself", ErrInvalidGrammar, e.Name)
			}
			c.visiting[e.Name] = true
			defer delete(c.visiting, e.Name)
			return c.expand(rule, r.Body)
		}
		s, ok := c.g.named[e.Name]
		if !ok {
			return nil, fmt.Errorf("%w: rule %q references undefined symbol %q", ErrInvalidGrammar, rule, e.Name)
		}
		return []alt{{items: []item{{sym: s}}}}, nil

	case SeqExpr:
		out := []alt{{}}
		for _, member := range e {
			alts, err := c.expand(rule, member)
			if err != nil {
				return nil, err
			}
			next := make([]alt, 0, len(out)*len(alts))
			for _, a := range out {
				for _, b := range alts {
					next = append(next, a.concat(b))
				}
			}
			out = next
		}
		return out, nil

	case ChoiceExpr:
		var out []alt
		for _, member := range e {
			alts, err := c.expand(rule, member)
			if err != nil {
				return nil, err
			}
			out = append(out, alts...)
		}
		return out, nil

	case OptionalExpr:
		alts, err := c.expand(rule, e.Body)
		if err != nil {
			return nil, err
		}
		return append([]alt{{}}, alts...), nil

	case RepeatExpr:
		aux, err := c.repeat(rule, e.Body)
		if err != nil {
			return nil, err
		}
		one := alt{items: []item{{sym: aux}}}
		if e.AtLeastOne {
			return []alt{one}, nil
		}
		return []alt{{}, one}, nil

	case PrecExpr:
		alts, err := c.expand(rule, e.Body)
		if err != nil {
			return nil, err
		}
		for i := range alts {
			if !alts[i].hasPrec {
				alts[i].prec, alts[i].assoc, alts[i].hasPrec = e.Level, e.Assoc, true
			}
		}
		return alts, nil

	case AliasExpr:
		alts, err := c.expand(rule, e.Body)
		if err != nil {
			return nil, err
		}
		for i := range alts {
			if len(alts[i].items) != 1 {
				return nil, fmt.Errorf("%w: alias %q in rule %q must wrap a single symbol", ErrInvalidGrammar, e.Name, rule)
			}
			alts[i].items[0].alias = e.Name
		}
		return alts, nil

	case FieldExpr:
		alts, err := c.expand(rule, e.Body)
		if err != nil {
			return nil, err
		}
		for i := range alts {
			for j := range alts[i].items {
				if alts[i].items[j].field == "" {
					alts[i].items[j].field = e.Name
				}
			}
		}
		return alts, nil
	}
	return nil, fmt.Errorf("%w: rule %q contains unsupported expression %T", ErrInvalidGrammar, rule, e)
}

// repeat creates the hidden auxiliary rule
//
//	rule_repeatN -> body | rule_repeatN body
func (c *compiler) repeat(rule string, body Expr) (Symbol, error) {
	alts, err := c.expand(rule, body)
	if err != nil {
		return NoSymbol, err
	}
	c.repeats[rule]++
	aux := c.add(SymbolInfo{
		Name:   fmt.Sprintf("%s_repeat%d", rule, c.repeats[rule]),
		Hidden: true,
		Aux:    true,
	})
	rec := make([]alt, 0, len(alts)*2)
	rec = append(rec, alts...)
	for _, b := range alts {
		rec = append(rec, alt{items: []item{{sym: aux}}}.concat(b))
	}
	c.addAlternatives(aux, rec)
	return aux, nil
}

func (c *compiler) addAlternatives(lhs Symbol, alts []alt) {
	seen := c.seen[lhs]
	if seen == nil {
		seen = map[string]bool{}
		c.seen[lhs] = seen
	}
	for _, a := range alts {
		k := a.key()
		if seen[k] {
			continue
		}
		seen[k] = true
		p := &Production{
			ID:      len(c.g.productions),
			LHS:     lhs,
			RHS:     make([]Symbol, len(a.items)),
			Fields:  make([]string, len(a.items)),
			Aliases: make([]string, len(a.items)),
			Prec:    a.prec,
			Assoc:   a.assoc,
			HasPrec: a.hasPrec,
			Index:   len(c.g.byLHS[lhs]),
		}
		for i, it := range a.items {
			p.RHS[i] = it.sym
			p.Fields[i] = it.field
			p.Aliases[i] = it.alias
		}
		c.g.productions = append(c.g.productions, p)
		c.g.byLHS[lhs] = append(c.g.byLHS[lhs], p)
	}
}

func (c *compiler) computeNullable() {
	for changed := true; changed; {
		changed = false
		for _, p := range c.g.productions {
			if c.g.symbols[p.LHS].Nullable {
				continue
			}
			nullable := true
			for _, s := range p.RHS {
				if !c.g.symbols[s].Nullable {
					nullable = false
					break
				}
			}
			if nullable {
				c.g.symbols[p.LHS].Nullable = true
				changed = true
			}
		}
	}
}
