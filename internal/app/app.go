// Package app assembles the pipeline from configuration. Both binaries
// build their dependencies here.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/nguyentantai21042004/cant-be-bothered/internal/audio"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/config"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/diarizer"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/logger"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/processor"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/recognizer"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/summarizer"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/transcriber"
	"github.com/nguyentantai21042004/cant-be-bothered/pkg/executor"
)

// Application holds the wired pipeline.
type Application struct {
	Config      *config.Config
	Logger      logger.Logger
	Processor   processor.Processor
	Transcriber *transcriber.Transcriber
	// Summarizer is nil when no Gemini key is configured.
	Summarizer summarizer.Summarizer
}

// Options tweak how the pipeline is assembled.
type Options struct {
	Progress transcriber.ProgressFactory
	Defaults processor.Job
}

// New builds every component from cfg.
func New(ctx context.Context, cfg *config.Config, log logger.Logger, opts Options) (*Application, error) {
	exec := executor.New()

	rec, err := recognizer.New(log, exec, cfg)
	if err != nil {
		return nil, fmt.Errorf("create recognizer: %w", err)
	}

	trOpts := []transcriber.Option{
		transcriber.WithRecognizeOptions(recognizer.OptionsFromConfig(cfg.Whisper)),
		transcriber.WithDiarizer(diarizer.New(log, exec, cfg.Whisper.Python, cfg.Diarization)),
	}
	if opts.Progress != nil {
		trOpts = append(trOpts, transcriber.WithProgress(opts.Progress))
	}
	tr := transcriber.New(log, rec, trOpts...)

	sum, err := summarizer.New(cfg.Gemini, log)
	switch {
	case errors.Is(err, summarizer.ErrMissingAPIKey):
		log.Debug(ctx, "Gemini API key not set, summaries disabled")
		sum = nil
	case err != nil:
		return nil, fmt.Errorf("create summarizer: %w", err)
	}

	procOpts := []processor.Option{processor.WithDefaults(opts.Defaults)}
	if sum != nil {
		procOpts = append(procOpts, processor.WithSummarizer(sum))
	}
	proc := processor.New(cfg, log, audio.New(log, exec, cfg.FFmpeg), tr, procOpts...)

	return &Application{
		Config:      cfg,
		Logger:      log,
		Processor:   proc,
		Transcriber: tr,
		Summarizer:  sum,
	}, nil
}

// DefaultJob is the processor job implied by the config file alone.
func DefaultJob(cfg *config.Config) processor.Job {
	return processor.Job{
		Model:       cfg.Whisper.Model,
		Language:    cfg.Whisper.Language,
		Device:      cfg.Whisper.Device,
		ComputeType: cfg.Whisper.ComputeType,
		Diarize:     cfg.Diarization.Enabled,
		MinSpeakers: cfg.Diarization.MinSpeakers,
		MaxSpeakers: cfg.Diarization.MaxSpeakers,
	}
}
