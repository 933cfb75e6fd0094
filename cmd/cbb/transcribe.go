package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/cant-be-bothered/internal/app"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/config"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/processor"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/summarizer"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/timespan"
)

type transcribeFlags struct {
	start, end   string
	output       string
	noCleanup    bool
	model        string
	device       string
	language     string
	computeType  string
	backend      string
	diarize      bool
	minSpeakers  int
	maxSpeakers  int
	summarize    bool
	simple       bool
	docx         bool
	instructions string
	quiet        bool
}

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var f transcribeFlags

	cmd := &cobra.Command{
		Use:   "transcribe AUDIO",
		Short: "Transcribe a recording, optionally with speakers and a summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.validate(); err != nil {
				return err
			}
			if err := applyTranscribeOverrides(cmd, ctx.cfg, f); err != nil {
				return err
			}

			opts := app.Options{Defaults: app.DefaultJob(ctx.cfg)}
			if ctx.interactive() {
				opts.Progress = newProgressBar(ctx.stderr)
			}
			runCtx := runContext(cmd.Context())
			a, err := app.New(runCtx, ctx.cfg, ctx.log, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printTitle(out, "Cant Be Bothered AI - Transcription")
			fmt.Fprintf(out, "Input file: %s\n", args[0])

			report, err := a.Processor.Run(runCtx, f.job(ctx.cfg, args[0]))
			if err != nil {
				return err
			}

			printSuccess(out, fmt.Sprintf("Transcript saved to: %s", report.Transcript))
			if report.Summary != "" {
				printSuccess(out, fmt.Sprintf("Summary saved to: %s", report.Summary))
			}
			if report.Docx != "" {
				printSuccess(out, fmt.Sprintf("Word document saved to: %s", report.Docx))
			}
			if report.WorkDir != "" {
				printHint(out, "Kept work directory: "+report.WorkDir)
			}

			if !f.quiet {
				body := report.Text
				if report.SummaryText != "" {
					body = report.SummaryText
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, body)
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, renderReport(report))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.start, "start", "", "Start time (HH:MM:SS, MM:SS or seconds)")
	flags.StringVar(&f.end, "end", "", "End time (HH:MM:SS, MM:SS or seconds)")
	flags.StringVarP(&f.output, "output", "o", "", "Output file (transcript, or summary with --summarize)")
	flags.BoolVar(&f.noCleanup, "no-cleanup", false, "Keep the temporary work directory")
	flags.StringVarP(&f.model, "model", "m", "", "Whisper model size (tiny, base, small, medium, large-v3)")
	flags.StringVarP(&f.device, "device", "d", "", "Device: auto, cpu or cuda")
	flags.StringVarP(&f.language, "language", "l", "", "Language code, or auto")
	flags.StringVar(&f.computeType, "compute-type", "", "Compute type (float16, int8, ...)")
	flags.StringVar(&f.backend, "backend", "", "Recognition backend: fasterwhisper, whispercpp or openai")
	flags.BoolVar(&f.diarize, "diarize", false, "Label speakers with pyannote")
	flags.IntVar(&f.minSpeakers, "min-speakers", 0, "Minimum number of speakers")
	flags.IntVar(&f.maxSpeakers, "max-speakers", 0, "Maximum number of speakers")
	flags.BoolVarP(&f.summarize, "summarize", "s", false, "Summarize the transcript with Gemini")
	flags.BoolVar(&f.simple, "simple", false, "Short bullet summary instead of minutes")
	flags.BoolVar(&f.docx, "docx", false, "Also write a Word document")
	flags.StringVar(&f.instructions, "instructions", "", "Custom summary instructions")
	flags.BoolVarP(&f.quiet, "quiet", "q", false, "Do not print the transcript")

	return cmd
}

func (f transcribeFlags) validate() error {
	for _, ts := range []string{f.start, f.end} {
		if ts == "" {
			continue
		}
		if _, err := timespan.Parse(ts); err != nil {
			return err
		}
	}
	if f.minSpeakers < 0 || f.maxSpeakers < 0 {
		return fmt.Errorf("speaker counts must not be negative")
	}
	if f.minSpeakers > 0 && f.maxSpeakers > 0 && f.minSpeakers > f.maxSpeakers {
		return fmt.Errorf("--min-speakers (%d) exceeds --max-speakers (%d)", f.minSpeakers, f.maxSpeakers)
	}
	if (f.simple || f.instructions != "") && !f.summarize {
		return fmt.Errorf("--simple and --instructions require --summarize")
	}
	return nil
}

// applyTranscribeOverrides layers explicitly set flags over the config file.
func applyTranscribeOverrides(cmd *cobra.Command, cfg *config.Config, f transcribeFlags) error {
	var o config.Config
	o.Whisper.Backend = f.backend
	o.Whisper.Model = f.model
	o.Whisper.Device = f.device
	o.Whisper.Language = f.language
	o.Whisper.ComputeType = f.computeType
	o.Diarization.MinSpeakers = f.minSpeakers
	o.Diarization.MaxSpeakers = f.maxSpeakers
	if err := cfg.Merge(o); err != nil {
		return err
	}
	// false would be dropped by the merge
	if cmd.Flags().Changed("diarize") {
		cfg.Diarization.Enabled = f.diarize
	}
	return nil
}

func (f transcribeFlags) job(cfg *config.Config, audioPath string) processor.Job {
	job := app.DefaultJob(cfg)
	job.AudioPath = audioPath
	job.Start = f.start
	job.End = f.end
	job.Output = f.output
	job.NoCleanup = f.noCleanup
	job.Summarize = f.summarize
	job.Instructions = f.instructions
	job.Docx = f.docx
	if f.simple {
		job.Mode = summarizer.ModeSimple
	}
	return job
}

func renderReport(r processor.Report) string {
	rows := [][]string{
		{"Model", r.Model},
		{"Language", r.Language},
		{"Audio duration", formatSeconds(r.Duration)},
		{"Segments", humanize.Comma(int64(r.Stats.Segments))},
	}
	if r.Diarized {
		rows = append(rows,
			[]string{"Speakers", humanize.Comma(int64(r.Stats.Speakers))},
			[]string{"Turns", humanize.Comma(int64(r.Stats.Turns))},
		)
	}
	if info, err := os.Stat(r.Transcript); err == nil {
		rows = append(rows, []string{"Transcript size", humanize.Bytes(uint64(info.Size()))})
	}
	if r.Tokens > 0 {
		rows = append(rows, []string{"Transcript tokens", humanize.Comma(int64(r.Tokens))})
	}
	rows = append(rows, []string{"Elapsed", r.Elapsed.Round(time.Second).String()})
	return renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}

func formatSeconds(sec float64) string {
	if sec <= 0 {
		return "-"
	}
	return timespan.Format(sec)
}
