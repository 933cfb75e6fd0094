package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nguyentantai21042004/cant-be-bothered/internal/audio"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/logger"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/summarizer"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/transcriber"
)

// Process runs the default job against audioPath.
func (p *implProcessor) Process(ctx context.Context, audioPath string) error {
	job := p.defaults
	job.AudioPath = audioPath
	_, err := p.Run(ctx, job)
	return err
}

// Run orchestrates the entire pipeline for one recording.
func (p *implProcessor) Run(ctx context.Context, job Job) (Report, error) {
	startTime := time.Now()
	if logger.RunID(ctx) == "" {
		ctx, _ = logger.WithRunID(ctx)
	}

	if _, err := os.Stat(job.AudioPath); err != nil {
		return Report{}, fmt.Errorf("%w: %s", transcriber.ErrAudioNotFound, job.AudioPath)
	}
	if job.Summarize && p.summarizer == nil {
		return Report{}, summarizer.ErrMissingAPIKey
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting processing: %s", job.AudioPath)
	p.logger.Info(ctx, "========================================")

	transcriptPath, summaryPath := p.outputPaths(job)
	report := Report{
		Input:      job.AudioPath,
		Transcript: transcriptPath,
		Summary:    summaryPath,
		Diarized:   job.Diarize,
	}

	// Step 1: Scratch space
	workDir, err := p.createWorkDir(ctx)
	if err != nil {
		return report, err
	}
	if job.NoCleanup {
		report.WorkDir = workDir
		p.logger.Info(ctx, "Temporary files are stored in: %s", workDir)
	} else {
		defer p.removeWorkDir(ctx, workDir)
	}

	// Step 2: Clip and convert
	working, err := p.prepare(ctx, job, workDir)
	if err != nil {
		return report, fmt.Errorf("prepare audio: %w", err)
	}

	// Step 3: Transcribe, one model at a time
	if err := p.modelSlots.acquire(ctx); err != nil {
		return report, err
	}
	res, err := p.transcriber.Run(ctx, transcriber.Request{
		AudioPath:         working,
		ModelSize:         job.Model,
		Language:          job.Language,
		Device:            job.Device,
		ComputeType:       job.ComputeType,
		OutputFile:        transcriptPath,
		EnableDiarization: job.Diarize,
		MinSpeakers:       job.MinSpeakers,
		MaxSpeakers:       job.MaxSpeakers,
	})
	p.modelSlots.release()
	if err != nil {
		return report, fmt.Errorf("transcribe: %w", err)
	}
	report.Text = res.Text
	report.Stats = res.Stats
	report.Duration = res.Info.Duration
	report.Language = res.Info.Language
	report.Model = job.Model

	// Step 4: Summary
	if job.Summarize {
		if err := p.summarize(ctx, job, &report); err != nil {
			return report, fmt.Errorf("summarize: %w", err)
		}
	}

	// Step 5: Word export
	if job.Docx {
		report.Docx = p.writeDocx(ctx, job, &report)
	}

	// Step 6: Move original to archived folder
	if job.Archive {
		if err := p.moveToArchived(ctx, job.AudioPath); err != nil {
			p.logger.Warn(ctx, "Failed to move original to archived folder: %v", err)
		}
	}

	report.Elapsed = time.Since(startTime)
	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing completed successfully!")
	p.logger.Info(ctx, "Transcript: %s", report.Transcript)
	if report.Summary != "" {
		p.logger.Info(ctx, "Summary: %s", report.Summary)
	}
	p.logger.Info(ctx, "Processing time: %s", report.Elapsed)
	p.logger.Info(ctx, "========================================")

	return report, nil
}

// outputPaths picks where the transcript and summary are written.
func (p *implProcessor) outputPaths(job Job) (transcriptPath, summaryPath string) {
	name := stem(job.AudioPath)

	if !job.Summarize {
		if job.Output != "" {
			return job.Output, ""
		}
		return filepath.Join(p.cfg.Paths.Output, name+".txt"), ""
	}

	summaryPath = job.Output
	if summaryPath == "" {
		summaryPath = filepath.Join(p.cfg.Paths.Output, name+".md")
	}
	transcriptPath = swapExt(summaryPath, ".txt")
	if transcriptPath == summaryPath {
		summaryPath = swapExt(summaryPath, ".md")
	}
	return transcriptPath, summaryPath
}

// prepare cuts and converts the recording inside workDir and returns the
// file handed to the recognizer.
func (p *implProcessor) prepare(ctx context.Context, job Job, workDir string) (string, error) {
	working := job.AudioPath
	converted := false

	if job.Start != "" || job.End != "" {
		if !audio.IsWAV(working) {
			out, err := p.preparer.Convert(ctx, working, filepath.Join(workDir, stem(working)+".wav"))
			if err != nil {
				return "", err
			}
			working, converted = out, true
		}
		cut, err := p.preparer.Cut(ctx, working, filepath.Join(workDir, "cut_"+stem(job.AudioPath)+".wav"), job.Start, job.End)
		if err != nil {
			return "", err
		}
		working = cut
	}

	switch {
	case converted:
	case p.needsConversion(ctx, working):
		out, err := p.preparer.Convert(ctx, working, filepath.Join(workDir, stem(working)+"_16k.wav"))
		if err != nil {
			return "", err
		}
		working = out
	default:
		p.logger.Info(ctx, "Audio already in WAV format, skipping conversion")
	}

	return working, nil
}

// needsConversion reports whether path must be re-encoded before recognition.
// Non-WAV input always is. WAV input is re-encoded when the in-process
// backends would reject its rate or layout.
func (p *implProcessor) needsConversion(ctx context.Context, path string) bool {
	if !audio.IsWAV(path) {
		return true
	}
	info, err := audio.Inspect(path)
	if err != nil {
		p.logger.Debug(ctx, "Inspect %s: %v", path, err)
		return true
	}
	if p.cfg.Whisper.Backend == "whispercpp" {
		return info.SampleRate != p.cfg.FFmpeg.SampleRate || info.Channels != 1
	}
	return false
}

func (p *implProcessor) summarize(ctx context.Context, job Job, report *Report) error {
	if tokens, err := p.summarizer.CountTokens(ctx, report.Text); err != nil {
		p.logger.Warn(ctx, "Failed to count tokens: %v", err)
	} else {
		report.Tokens = tokens
		p.logger.Info(ctx, "Transcript tokens: %d", tokens)
	}

	var (
		summary string
		err     error
	)
	switch {
	case job.Instructions != "":
		summary, err = p.summarizer.GenerateCustom(ctx, report.Text, job.Instructions)
	case job.Mode == summarizer.ModeSimple:
		summary, err = p.summarizer.GenerateSimpleSummary(ctx, report.Text)
	default:
		summary, err = p.summarizer.GenerateMinutes(ctx, report.Text, "")
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(report.Summary), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(report.Summary, []byte(summary), 0644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	report.SummaryText = summary
	return nil
}

// writeDocx exports the summary, or the transcript when there is none.
// Failures are logged, the text outputs are already on disk.
func (p *implProcessor) writeDocx(ctx context.Context, job Job, report *Report) string {
	var (
		path string
		err  error
	)
	title := stem(job.AudioPath)
	if report.Summary != "" {
		path = swapExt(report.Summary, ".docx")
		err = summarizer.WriteMarkdownDocx(title, report.SummaryText, path)
	} else {
		path = swapExt(report.Transcript, ".docx")
		err = summarizer.WriteTranscriptDocx(title, report.Text, path)
	}
	if err != nil {
		p.logger.Warn(ctx, "Failed to write %s: %v", path, err)
		return ""
	}
	return path
}
