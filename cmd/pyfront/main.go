package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/pyfront/config"
)

const version = "0.1.0"

var log = commonlog.GetLogger("pyfront.cli")

// settings is filled in before any subcommand runs.
var settings *config.Config

func newRootCmd() *cobra.Command {
	var verbosity int
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "pyfront",
		Short:         "A front end for Python-family source code",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			commonlog.Configure(verbosity, nil)
			var err error
			if configPath != "" {
				settings, err = config.LoadFile(configPath)
			} else {
				settings, err = config.Load()
			}
			if err != nil {
				return err
			}
			if settings.Path != "" {
				log.Debugf("using settings from %s", settings.Path)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "settings file (default: nearest "+config.FileName+")")

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newTokensCmd())
	rootCmd.AddCommand(newGrammarCmd())
	rootCmd.AddCommand(newLSPCmd())

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		rootCmd.PrintErrln("error:", err)
		stop()
		os.Exit(1)
	}
}
