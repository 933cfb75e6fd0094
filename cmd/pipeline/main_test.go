package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/cant-be-bothered/internal/summarizer"
)

func runPipeline(t *testing.T, args ...string) error {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("CBB_ENV", "")
	t.Setenv("GEMINI_API_KEY", "")

	cmd := newRootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestPipelineFlags(t *testing.T) {
	cmd := newRootCommand()
	for _, name := range []string{"config", "summarize", "simple", "docx"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("flag --%s not registered", name)
		}
	}
	if got := cmd.Flags().Lookup("config").DefValue; got != "config.yaml" {
		t.Errorf("--config default = %q, want config.yaml", got)
	}
}

func TestPipelineStartupErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) []string
		check func(t *testing.T, err error)
	}{
		{
			name:  "positional arguments",
			setup: func(t *testing.T) []string { return []string{"extra"} },
			check: func(t *testing.T, err error) {
				if err == nil {
					t.Fatal("expected an error")
				}
			},
		},
		{
			name: "invalid config",
			setup: func(t *testing.T) []string {
				path := filepath.Join(t.TempDir(), "bad.yaml")
				if err := os.WriteFile(path, []byte("whisper:\n  backend: vosk\n"), 0o644); err != nil {
					t.Fatal(err)
				}
				return []string{"--config", path}
			},
			check: func(t *testing.T, err error) {
				if err == nil || !strings.Contains(err.Error(), "failed to load config") {
					t.Fatalf("error = %v, want a config error", err)
				}
			},
		},
		{
			name:  "summaries without key",
			setup: func(t *testing.T) []string { return []string{"--summarize"} },
			check: func(t *testing.T, err error) {
				if !errors.Is(err, summarizer.ErrMissingAPIKey) {
					t.Fatalf("error = %v, want ErrMissingAPIKey", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runPipeline(t, tt.setup(t)...)
			tt.check(t, err)
		})
	}
}
