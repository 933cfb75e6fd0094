package app

import (
	"context"
	"io"
	"testing"

	"github.com/nguyentantai21042004/cant-be-bothered/internal/config"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/logger"
)

func quietLogger() logger.Logger {
	return logger.NewWithOptions(logger.Options{Level: "error", Writer: io.Discard})
}

func TestNew(t *testing.T) {
	tests := []struct {
		name           string
		mutate         func(c *config.Config)
		wantErr        bool
		wantSummarizer bool
	}{
		{"defaults", func(c *config.Config) {}, false, false},
		{"with gemini key", func(c *config.Config) { c.Gemini.APIKeys = []string{"k"} }, false, true},
		{"openai without key", func(c *config.Config) { c.Whisper.Backend = "openai" }, true, false},
		{"unknown backend", func(c *config.Config) { c.Whisper.Backend = "nope" }, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)

			a, err := New(context.Background(), cfg, quietLogger(), Options{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if a.Processor == nil || a.Transcriber == nil {
				t.Error("pipeline not wired")
			}
			if (a.Summarizer != nil) != tt.wantSummarizer {
				t.Errorf("summarizer present = %v, want %v", a.Summarizer != nil, tt.wantSummarizer)
			}
		})
	}
}

func TestDefaultJob(t *testing.T) {
	cfg := config.Default()
	cfg.Diarization.Enabled = true
	cfg.Diarization.MaxSpeakers = 3

	job := DefaultJob(cfg)
	if job.Model != "large-v3" || job.Language != "sk" || !job.Diarize || job.MaxSpeakers != 3 {
		t.Errorf("DefaultJob() = %+v", job)
	}
}
