package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/pyfront/format"
	"github.com/dhamidi/pyfront/python/literal"
	"github.com/dhamidi/pyfront/python/parser"
)

func newTokensCmd() *cobra.Command {
	var pf parserFlags
	var showValues bool

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream of a Python file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := "-"
			if len(args) == 1 {
				file = args[0]
			}
			src, err := readSource(cmd, file)
			if err != nil {
				return err
			}
			toks, comments := parser.Tokenize(src, pf.options(cmd)...)
			if err := format.NewLineEncoder(cmd.OutOrStdout()).Encode(src, toks); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			if len(comments) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "# comments")
				if err := format.NewLineEncoder(cmd.OutOrStdout()).Encode(src, comments); err != nil {
					return fmt.Errorf("encode: %w", err)
				}
			}
			if !showValues {
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "# values")
			lines := parser.NewLineIndex(src)
			for _, tok := range toks {
				switch tok.Kind {
				case parser.TokenInteger, parser.TokenFloat, parser.TokenString:
				default:
					continue
				}
				pos := lines.Position(tok.Span.Start)
				v, err := literal.Value(src, tok)
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%d:%d\terror\t%s\n", pos.Line, pos.Column, err)
					continue
				}
				if s, ok := v.(literal.Str); ok {
					fmt.Fprintf(cmd.OutOrStdout(), "%d:%d\tstr\t%q\t%s\n", pos.Line, pos.Column, s.Value, s.Prefix)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d:%d\t%T\t%v\n", pos.Line, pos.Column, v, v)
			}
			return nil
		},
	}

	pf.register(cmd)
	cmd.Flags().BoolVar(&showValues, "values", false, "decode number and string literals")

	return cmd
}
