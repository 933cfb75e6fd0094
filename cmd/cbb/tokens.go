package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/cant-be-bothered/internal/summarizer"
)

func newTokensCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens FILE",
		Short: "Count Gemini tokens in a transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read transcript: %w", err)
			}

			sum, err := summarizer.New(ctx.cfg.Gemini, ctx.log)
			if err != nil {
				return err
			}
			count, err := sum.CountTokens(runContext(cmd.Context()), string(data))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Token count for '%s': %s\n", args[0], humanize.Comma(int64(count)))
			return nil
		},
	}
}
