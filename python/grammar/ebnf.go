package grammar

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/ebnf"
)

// EBNF renders the definition in the notation read by golang.org/x/exp/ebnf.
// Precedence, aliases, fields, inline markers and conflicts have no EBNF
// equivalent and are written as comments. Terminals that the rule table
// references are emitted as placeholder productions so the result verifies.
func (d *Definition) EBNF() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "/* %s grammar, start: %s */\n", d.Name, d.Start)
	for _, set := range d.Conflicts {
		fmt.Fprintf(&sb, "/* conflict: %s */\n", strings.Join(set, ", "))
	}
	inline := map[string]bool{}
	for _, name := range d.Inline {
		inline[name] = true
	}
	used := map[string]bool{}
	sb.WriteByte('\n')
	for _, r := range d.Rules {
		if inline[r.Name] {
			sb.WriteString("/* inline */ ")
		}
		fmt.Fprintf(&sb, "%s = %s .\n", r.Name, renderExpr(r.Body, false, used))
	}
	var terminals []string
	terminals = append(terminals, d.Externals...)
	terminals = append(terminals, d.Terminals...)
	wroteHeader := false
	for _, t := range terminals {
		if !used[t] {
			continue
		}
		if !wroteHeader {
			sb.WriteString("\n/* terminals produced by the scanner */\n")
			wroteHeader = true
		}
		fmt.Fprintf(&sb, "%s = %s .\n", t, strconv.Quote("<"+strings.TrimPrefix(t, "_")+">"))
	}
	return sb.String()
}

func renderExpr(e Expr, grouped bool, used map[string]bool) string {
	switch e := e.(type) {
	case LiteralExpr:
		return strconv.Quote(e.Text)
	case SymbolExpr:
		used[e.Name] = true
		return e.Name
	case SeqExpr:
		parts := make([]string, len(e))
		for i, m := range e {
			parts[i] = renderExpr(m, true, used)
		}
		return strings.Join(parts, " ")
	case ChoiceExpr:
		parts := make([]string, len(e))
		for i, m := range e {
			parts[i] = renderExpr(m, false, used)
		}
		s := strings.Join(parts, " | ")
		if grouped {
			return "( " + s + " )"
		}
		return s
	case OptionalExpr:
		return "[ " + renderExpr(e.Body, false, used) + " ]"
	case RepeatExpr:
		body := renderExpr(e.Body, false, used)
		if e.AtLeastOne {
			return renderExpr(e.Body, true, used) + " { " + body + " }"
		}
		return "{ " + body + " }"
	case PrecExpr:
		label := "prec"
		if e.Assoc != AssocNone {
			label += "." + e.Assoc.String()
		}
		return fmt.Sprintf("/* %s(%d) */ ( %s )", label, e.Level, renderExpr(e.Body, false, used))
	case AliasExpr:
		return fmt.Sprintf("%s /* as %s */", renderExpr(e.Body, true, used), e.Name)
	case FieldExpr:
		return fmt.Sprintf("/* %s: */ %s", e.Name, renderExpr(e.Body, true, used))
	}
	return ""
}

// RuleEBNF renders a single rule the way EBNF writes it.
func (d *Definition) RuleEBNF(name string) (string, bool) {
	r, ok := d.Rule(name)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s = %s .", r.Name, renderExpr(r.Body, false, map[string]bool{})), true
}

// Verify renders def as EBNF, parses it back and checks that every
// referenced production exists and every production is reachable from the
// start rule.
func Verify(def *Definition) error {
	g, err := ParseEBNF(def)
	if err != nil {
		return err
	}
	if err := ebnf.Verify(g, def.Start); err != nil {
		return fmt.Errorf("verify %s grammar: %w", def.Name, err)
	}
	return nil
}

// ParseEBNF renders def and parses the rendering with the EBNF reader.
func ParseEBNF(def *Definition) (ebnf.Grammar, error) {
	g, err := ebnf.Parse(def.Name+".ebnf", strings.NewReader(def.EBNF()))
	if err != nil {
		return nil, fmt.Errorf("parse %s grammar: %w", def.Name, err)
	}
	return g, nil
}
