package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/schollz/progressbar/v3"

	"github.com/nguyentantai21042004/cant-be-bothered/internal/summarizer"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/transcriber"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/transcript"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	failStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, titleStyle.Render(title))
}

func printSuccess(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render("✓ ")+msg)
}

func printHint(w io.Writer, msg string) {
	fmt.Fprintln(w, dimStyle.Render(msg))
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, failStyle.Render("✗ Error: ")+err.Error())
	if errors.Is(err, summarizer.ErrMissingAPIKey) {
		printHint(w, "Set GEMINI_API_KEY in the environment or a .env file.")
		printHint(w, "Multiple keys may be given comma separated.")
	}
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// newProgressBar renders assembler progress on w. The total is only an
// estimate, so the bar grows when the recording has more segments.
func newProgressBar(w io.Writer) transcriber.ProgressFactory {
	return func(_ context.Context, total int) (transcript.Observer, func()) {
		bar := progressbar.NewOptions(total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("Transcribing audio..."),
			progressbar.OptionShowCount(),
			progressbar.OptionSetElapsedTime(true),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
		)
		obs := func(done int) {
			if done > bar.GetMax() {
				bar.ChangeMax(done)
			}
			_ = bar.Set(done)
		}
		return obs, func() { _ = bar.Finish() }
	}
}
