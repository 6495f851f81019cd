package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/pyfront/format"
	"github.com/dhamidi/pyfront/python/parser"
)

// parserFlags are the parser settings a command line can override.
type parserFlags struct {
	tabWidth       int
	comments       bool
	maxItems       int
	recoveryRounds int
}

func (f *parserFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.tabWidth, "tab-width", parser.DefaultTabWidth, "columns per tab stop when measuring indentation")
	cmd.Flags().BoolVar(&f.comments, "comments", false, "collect comments")
	cmd.Flags().IntVar(&f.maxItems, "max-items", parser.DefaultMaxItems, "parse work budget per top-level statement (0 for none)")
	cmd.Flags().IntVar(&f.recoveryRounds, "recovery-rounds", parser.DefaultRecoveryRounds, "error regions recovered per statement before giving up on it")
}

// options merges the settings file with the flags set on cmd.
func (f *parserFlags) options(cmd *cobra.Command) []parser.Option {
	opts := settings.ParserOptions()
	if cmd.Flags().Changed("tab-width") {
		opts = append(opts, parser.WithTabWidth(f.tabWidth))
	}
	if cmd.Flags().Changed("comments") {
		opts = append(opts, parser.WithComments(f.comments))
	}
	if cmd.Flags().Changed("max-items") {
		opts = append(opts, parser.WithMaxItems(f.maxItems))
	}
	if cmd.Flags().Changed("recovery-rounds") {
		opts = append(opts, parser.WithRecoveryRounds(f.recoveryRounds))
	}
	return opts
}

func newParseCmd() *cobra.Command {
	var pf parserFlags
	var outputFormat string
	var includePositions bool
	var includeAnonymous bool
	var showAmbiguities bool

	cmd := &cobra.Command{
		Use:   "parse [file|dir]...",
		Short: "Parse Python files and dump their syntax trees",
		Long: "Parse Python files and dump their syntax trees. Directories are searched for .py files.\n" +
			"With no arguments, or with -, source is read from standard input.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") && settings.Format != "" {
				outputFormat = settings.Format
			}
			enc, err := format.New(outputFormat, cmd.OutOrStdout(), format.Options{
				Positions: includePositions,
				Anonymous: includeAnonymous,
			})
			if err != nil {
				return err
			}

			files, err := expandArgs(args)
			if err != nil {
				return err
			}
			opts := pf.options(cmd)

			failed := 0
			for _, file := range files {
				src, err := readSource(cmd, file)
				if err != nil {
					return err
				}
				tree, err := parser.Parse(cmd.Context(), src, opts...)
				if err != nil {
					return fmt.Errorf("parse %s: %w", file, err)
				}
				if len(files) > 1 {
					fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", file)
				}
				if err := enc.Encode(tree); err != nil {
					return fmt.Errorf("encode: %w", err)
				}
				for _, d := range tree.Diagnostics() {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s:%s\n", file, d)
				}
				if showAmbiguities {
					for _, a := range tree.Ambiguities() {
						pos := tree.Lines().Position(a.Span.Start)
						fmt.Fprintf(cmd.ErrOrStderr(), "%s:%d:%d: %s\n", file, pos.Line, pos.Column, a)
					}
				}
				if tree.HasErrors() {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files have syntax errors", failed, len(files))
			}
			return nil
		},
	}

	pf.register(cmd)
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "sexp", "output format (sexp, json, yaml)")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "include byte spans in S-expressions")
	cmd.Flags().BoolVar(&includeAnonymous, "anonymous", false, "include keyword and punctuation leaves in json and yaml")
	cmd.Flags().BoolVar(&showAmbiguities, "ambiguities", false, "report places where more than one derivation survived")

	return cmd
}

// expandArgs replaces directories by the Python files they contain. No
// arguments means standard input.
func expandArgs(args []string) ([]string, error) {
	if len(args) == 0 {
		return []string{"-"}, nil
	}
	var files []string
	for _, arg := range args {
		if arg == "-" {
			files = append(files, arg)
			continue
		}
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		found, err := settings.PythonFiles(arg)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

func readSource(cmd *cobra.Command, file string) ([]byte, error) {
	if file == "-" {
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return src, nil
	}
	src, err := os.ReadFile(filepath.Clean(file))
	if err != nil {
		return nil, fmt.Errorf("read python file: %w", err)
	}
	return src, nil
}
