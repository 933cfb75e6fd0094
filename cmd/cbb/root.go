package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	return buildRootCommand(os.Stderr)
}

// buildRootCommand wires the command tree. Logs go to stderr.
func buildRootCommand(stderr io.Writer) *cobra.Command {
	var configFlag string
	var envFlag string
	var verbose bool

	ctx := newCommandContext(&configFlag, &envFlag, &verbose, stderr)

	rootCmd := &cobra.Command{
		Use:           "cbb",
		Short:         "Transcribe, diarize and summarize meeting recordings",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (default config.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&envFlag, "env", "", "Extra .env file with API keys")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(newTranscribeCommand(ctx))
	rootCmd.AddCommand(newSummarizeCommand(ctx))
	rootCmd.AddCommand(newTokensCommand(ctx))

	return rootCmd
}
