// Package cli provides the command-line interface for the ragd service.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/JuanMendez11/rag-fastapi-challenge/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "ragd",
	Short: "Retrieval-augmented document service",
	Long: `ragd indexes text documents and answers questions strictly from
their content. Documents are uploaded, split into overlapping chunks,
embedded and stored; questions are answered only when the retrieved
context scores above a similarity threshold.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with the given context, which is
// propagated to all subcommands for cancellation.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
