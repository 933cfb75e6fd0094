package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/cant-be-bothered/internal/app"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/config"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/logger"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/summarizer"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/watcher"
)

type pipelineFlags struct {
	configPath string
	summarize  bool
	simple     bool
	docx       bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var f pipelineFlags

	cmd := &cobra.Command{
		Use:           "pipeline",
		Short:         "Watch the input folder and transcribe new recordings",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), f)
		},
	}

	cmd.Flags().StringVarP(&f.configPath, "config", "c", "config.yaml", "Configuration file path")
	cmd.Flags().BoolVarP(&f.summarize, "summarize", "s", false, "Write meeting minutes next to each transcript")
	cmd.Flags().BoolVar(&f.simple, "simple", false, "Bullet-point summary instead of full minutes")
	cmd.Flags().BoolVar(&f.docx, "docx", false, "Also export .docx files")

	return cmd
}

func run(ctx context.Context, f pipelineFlags) error {
	if err := config.LoadDefaultEnv(); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	// Load configuration
	cfg, err := config.LoadOrDefault(f.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log := logger.NewWithOptions(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	log.Info(ctx, "========================================")
	log.Info(ctx, "Recording Transcription Pipeline")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "CPU Cores: %d", runtime.NumCPU())
	log.Info(ctx, "Max Concurrent Processing: %d", cfg.Performance.MaxConcurrent)
	log.Info(ctx, "Configuration loaded successfully")

	// Verify required directories exist
	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		return err
	}

	// Initialize dependencies
	job := app.DefaultJob(cfg)
	job.Archive = true
	job.Summarize = f.summarize
	job.Docx = f.docx
	if f.simple {
		job.Mode = summarizer.ModeSimple
	}

	a, err := app.New(ctx, cfg, log, app.Options{Defaults: job})
	if err != nil {
		log.Error(ctx, "Failed to build pipeline: %v", err)
		return err
	}
	if job.Summarize && a.Summarizer == nil {
		log.Error(ctx, "Summaries requested but %v", summarizer.ErrMissingAPIKey)
		return summarizer.ErrMissingAPIKey
	}

	// Create watcher with processor as handler and concurrency control
	w, err := watcher.New(cfg.Paths.Input, a.Processor.Process, log, cfg.Performance.MaxConcurrent)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		return err
	}
	defer w.Stop()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start watcher in goroutine
	done := make(chan error, 1)
	go func() {
		done <- w.Start(ctx)
	}()

	log.Info(ctx, "========================================")
	log.Info(ctx, "Pipeline is ready!")
	log.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
	log.Info(ctx, "Output: %s", cfg.Paths.Output)
	log.Info(ctx, "Backend: %s (%s, %s)", cfg.Whisper.Backend, cfg.Whisper.Model, cfg.Whisper.Language)
	log.Info(ctx, "Diarization: %t", cfg.Diarization.Enabled)
	log.Info(ctx, "Summaries: %t", job.Summarize)
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	// Wait for shutdown signal or error
	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
		// Graceful shutdown, waits for in-flight handlers to return
		log.Info(ctx, "Shutting down gracefully...")
		cancel()
		<-done
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error(ctx, "Watcher error: %v", err)
			return err
		}
	}

	log.Info(ctx, "Pipeline stopped")
	return nil
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Paths.Archived,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
