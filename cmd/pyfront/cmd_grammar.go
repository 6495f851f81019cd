package main

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"

	"github.com/dhamidi/pyfront/python/grammar"
)

func newGrammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Inspect the grammar rule table",
	}

	cmd.AddCommand(newGrammarEBNFCmd())
	cmd.AddCommand(newGrammarCheckCmd())
	cmd.AddCommand(newGrammarShowCmd())
	cmd.AddCommand(newGrammarKindsCmd())

	return cmd
}

func newGrammarEBNFCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ebnf",
		Short: "Print the grammar in EBNF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), grammar.PythonDefinition().EBNF())
			return err
		},
	}
}

func newGrammarCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the grammar: every rule defined, reachable and compilable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			def := grammar.PythonDefinition()
			if err := grammar.Verify(def); err != nil {
				printErrors(cmd.ErrOrStderr(), err)
				return errors.New("grammar check failed")
			}
			g, err := grammar.Compile(def)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rules, %d productions, %d symbols, %d conflict sets\n",
				g.Name(), len(def.Rules), len(g.AllProductions()), g.SymbolCount(), len(g.Conflicts()))
			return nil
		},
	}
}

func newGrammarShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <rule>...",
		Short: "Show the declaration and compiled productions of rules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g := grammar.Python()
			def := g.Definition()
			out := cmd.OutOrStdout()
			for _, name := range args {
				decl, ok := def.RuleEBNF(name)
				if !ok {
					return unknownRule(name, g.RuleNames())
				}
				fmt.Fprintln(out, decl)
				sym := g.Lookup(name)
				if sym == grammar.NoSymbol {
					fmt.Fprintln(out, "  (inlined at every use)")
					continue
				}
				for _, p := range g.Productions(sym) {
					fmt.Fprintf(out, "  %s\n", g.ProductionString(p))
				}
			}
			return nil
		},
	}
}

func newGrammarKindsCmd() *cobra.Command {
	var fields bool

	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List the node kinds a syntax tree can contain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g := grammar.Python()
			names := g.NodeKinds()
			if fields {
				names = g.FieldNames()
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(names, "\n"))
			return err
		},
	}

	cmd.Flags().BoolVar(&fields, "fields", false, "list field names instead")

	return cmd
}

func unknownRule(name string, rules []string) error {
	matches := fuzzy.RankFindFold(name, rules)
	if len(matches) == 0 {
		return fmt.Errorf("unknown rule: %s", name)
	}
	sort.Sort(matches)
	var suggestions []string
	for _, m := range matches[:min(len(matches), 3)] {
		suggestions = append(suggestions, m.Target)
	}
	return fmt.Errorf("unknown rule: %s (did you mean %s?)", name, strings.Join(suggestions, ", "))
}

// printErrors writes one line per error when err wraps an error list.
func printErrors(w io.Writer, err error) {
	for e := err; e != nil; e = errors.Unwrap(e) {
		v := reflect.ValueOf(e)
		if v.Kind() == reflect.Slice {
			for i := 0; i < v.Len(); i++ {
				fmt.Fprintln(w, v.Index(i).Interface())
			}
			return
		}
	}
	fmt.Fprintln(w, err)
}
