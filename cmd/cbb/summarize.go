package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/cant-be-bothered/internal/summarizer"
)

func newSummarizeCommand(ctx *commandContext) *cobra.Command {
	var dest string
	var simple, docx, force bool

	cmd := &cobra.Command{
		Use:   "summarize DIR",
		Short: "Summarize every transcript in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := args[0]
			if info, err := os.Stat(src); err != nil || !info.IsDir() {
				return fmt.Errorf("not a directory: %s", src)
			}
			if dest == "" {
				dest = filepath.Join(ctx.cfg.Paths.Output, "summaries")
			}

			sum, err := summarizer.New(ctx.cfg.Gemini, ctx.log)
			if err != nil {
				return err
			}

			opts := summarizer.BatchOptions{
				Docx:        docx,
				Concurrency: ctx.cfg.Performance.MaxConcurrent,
				Force:       force,
			}
			if simple {
				opts.Mode = summarizer.ModeSimple
			}

			out := cmd.OutOrStdout()
			printTitle(out, "Cant Be Bothered AI - Summaries")
			report, err := sum.SummarizeAll(runContext(cmd.Context()), src, dest, opts)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, renderBatchReport(report))
			if report.Failed > 0 {
				return errors.New("some transcripts could not be summarized, see the log")
			}
			printSuccess(out, "Summaries saved to: "+dest)
			return nil
		},
	}

	cmd.Flags().StringVar(&dest, "dest", "", "Destination directory (default <output>/summaries)")
	cmd.Flags().BoolVar(&simple, "simple", false, "Short bullet summaries instead of minutes")
	cmd.Flags().BoolVar(&docx, "docx", false, "Also write Word documents")
	cmd.Flags().BoolVar(&force, "force", false, "Re-summarize transcripts that already have a summary")

	return cmd
}

func renderBatchReport(r summarizer.BatchReport) string {
	rows := [][]string{
		{"Summarized", humanize.Comma(int64(r.Summarized))},
		{"Skipped", humanize.Comma(int64(r.Skipped))},
		{"Failed", humanize.Comma(int64(r.Failed))},
	}
	return renderTable([]string{"Result", "Files"}, rows, []columnAlignment{alignLeft, alignRight})
}
