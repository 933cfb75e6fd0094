package main

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nguyentantai21042004/cant-be-bothered/internal/config"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/processor"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/summarizer"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/transcriber"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/transcript"
)

// setupCLITestEnv isolates the CLI from the developer's config and keys.
func setupCLITestEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("CBB_ENV", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("HF_TOKEN", "")
	return dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := buildRootCommand(io.Discard)
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestRootCommandTree(t *testing.T) {
	cmd := newRootCommand()
	for _, name := range []string{"transcribe", "summarize", "tokens"} {
		sub, _, err := cmd.Find([]string{name})
		if err != nil || sub.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestExplicitConfigMustExist(t *testing.T) {
	setupCLITestEnv(t)

	_, err := runCLI(t, "--config", "missing.yaml", "tokens", "x.txt")
	if err == nil {
		t.Fatal("expected an error for a missing --config file")
	}
	requireContains(t, err.Error(), "load config")
}

func TestExplicitEnvMustExist(t *testing.T) {
	setupCLITestEnv(t)

	_, err := runCLI(t, "--env", "missing.env", "tokens", "x.txt")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("error = %v, want fs.ErrNotExist", err)
	}
}

func TestTranscribeFlagValidation(t *testing.T) {
	setupCLITestEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad start", []string{"transcribe", "a.wav", "--start", "1:2:3:4"}, "invalid"},
		{"nan start", []string{"transcribe", "a.wav", "--start", "NaN"}, "invalid"},
		{"speaker order", []string{"transcribe", "a.wav", "--min-speakers", "4", "--max-speakers", "2"}, "exceeds"},
		{"simple without summarize", []string{"transcribe", "a.wav", "--simple"}, "--summarize"},
		{"no audio", []string{"transcribe"}, "accepts 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			requireContains(t, err.Error(), tt.want)
		})
	}
}

func TestTranscribeMissingAudio(t *testing.T) {
	setupCLITestEnv(t)

	out, err := runCLI(t, "transcribe", "nothing.wav")
	if !errors.Is(err, transcriber.ErrAudioNotFound) {
		t.Fatalf("error = %v, want ErrAudioNotFound", err)
	}
	requireContains(t, out, "Input file: nothing.wav")
}

func TestTranscribeSummaryNeedsKey(t *testing.T) {
	dir := setupCLITestEnv(t)
	if err := os.WriteFile(filepath.Join(dir, "meeting.wav"), []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := runCLI(t, "transcribe", "meeting.wav", "--summarize")
	if !errors.Is(err, summarizer.ErrMissingAPIKey) {
		t.Fatalf("error = %v, want ErrMissingAPIKey", err)
	}
}

func TestApplyTranscribeOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Diarization.Enabled = true

	cmd := newTranscribeCommand(&commandContext{})
	if err := cmd.Flags().Set("diarize", "false"); err != nil {
		t.Fatal(err)
	}
	f := transcribeFlags{model: "small", backend: "openai", language: "auto", maxSpeakers: 3}

	if err := applyTranscribeOverrides(cmd, cfg, f); err != nil {
		t.Fatalf("applyTranscribeOverrides() error = %v", err)
	}
	if cfg.Whisper.Model != "small" || cfg.Whisper.Backend != "openai" || cfg.Whisper.Language != "auto" {
		t.Errorf("whisper = %+v", cfg.Whisper)
	}
	if cfg.Whisper.Device != "auto" {
		t.Errorf("Device = %q, unset flags must keep the config value", cfg.Whisper.Device)
	}
	if cfg.Diarization.MaxSpeakers != 3 {
		t.Errorf("MaxSpeakers = %d, want 3", cfg.Diarization.MaxSpeakers)
	}
	if cfg.Diarization.Enabled {
		t.Error("--diarize=false should disable diarization")
	}
}

func TestApplyTranscribeOverridesRejectsBackend(t *testing.T) {
	cmd := newTranscribeCommand(&commandContext{})
	err := applyTranscribeOverrides(cmd, config.Default(), transcribeFlags{backend: "vosk"})
	if err == nil {
		t.Fatal("expected an unknown backend to fail validation")
	}
}

func TestTranscribeJob(t *testing.T) {
	cfg := config.Default()
	cfg.Diarization.Enabled = true
	cfg.Diarization.MinSpeakers = 2

	f := transcribeFlags{
		start:     "1:00",
		end:       "2:00",
		output:    "out.md",
		noCleanup: true,
		summarize: true,
		simple:    true,
		docx:      true,
	}
	job := f.job(cfg, "rec.mp3")

	want := processor.Job{
		AudioPath:   "rec.mp3",
		Start:       "1:00",
		End:         "2:00",
		Output:      "out.md",
		NoCleanup:   true,
		Model:       cfg.Whisper.Model,
		Language:    cfg.Whisper.Language,
		Device:      cfg.Whisper.Device,
		ComputeType: cfg.Whisper.ComputeType,
		Diarize:     true,
		MinSpeakers: 2,
		Summarize:   true,
		Mode:        summarizer.ModeSimple,
		Docx:        true,
	}
	if job != want {
		t.Errorf("job() = %+v\nwant %+v", job, want)
	}
}

func TestRenderReport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t.txt")
	if err := os.WriteFile(path, bytes.Repeat([]byte("a"), 2048), 0o644); err != nil {
		t.Fatal(err)
	}

	r := processor.Report{
		Transcript: path,
		Model:      "large-v3",
		Language:   "sk",
		Duration:   3725,
		Stats:      transcript.Stats{Segments: 1234, Turns: 40, Speakers: 3},
		Elapsed:    90 * time.Second,
	}

	plain := renderReport(r)
	for _, s := range []string{"large-v3", "1,234", "1:02:05", "2.0 kB", "1m30s"} {
		requireContains(t, plain, s)
	}
	if strings.Contains(plain, "Speakers") {
		t.Errorf("report without diarization lists speakers:\n%s", plain)
	}

	r.Diarized = true
	r.Tokens = 52000
	diarized := renderReport(r)
	for _, s := range []string{"Speakers", "Turns", "52,000"} {
		requireContains(t, diarized, s)
	}
}

func TestRenderTable(t *testing.T) {
	if got := renderTable(nil, nil, nil); got != "" {
		t.Errorf("renderTable() with no headers = %q, want empty", got)
	}
	got := renderTable([]string{"A", "B"}, [][]string{{"x"}}, []columnAlignment{alignLeft, alignRight})
	requireContains(t, got, "A")
	requireContains(t, got, "x")
}

func TestProgressBarGrowsPastEstimate(t *testing.T) {
	var buf bytes.Buffer
	obs, done := newProgressBar(&buf)(t.Context(), 2)
	for i := 1; i <= 5; i++ {
		obs(i)
	}
	done()
	requireContains(t, buf.String(), "Transcribing audio")
}

func TestTokensMissingFile(t *testing.T) {
	setupCLITestEnv(t)

	_, err := runCLI(t, "tokens", "missing.txt")
	if err == nil {
		t.Fatal("expected an error")
	}
	requireContains(t, err.Error(), "read transcript")
}

func TestTokensNeedsKey(t *testing.T) {
	dir := setupCLITestEnv(t)
	if err := os.WriteFile(filepath.Join(dir, "t.txt"), []byte("ahoj"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := runCLI(t, "tokens", "t.txt")
	if !errors.Is(err, summarizer.ErrMissingAPIKey) {
		t.Fatalf("error = %v, want ErrMissingAPIKey", err)
	}
}

func TestSummarizeArguments(t *testing.T) {
	dir := setupCLITestEnv(t)
	file := filepath.Join(dir, "t.txt")
	if err := os.WriteFile(file, []byte("ahoj"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := runCLI(t, "summarize", file); err == nil || !strings.Contains(err.Error(), "not a directory") {
		t.Errorf("summarize FILE error = %v, want not a directory", err)
	}
	if _, err := runCLI(t, "summarize", dir); !errors.Is(err, summarizer.ErrMissingAPIKey) {
		t.Errorf("summarize DIR error = %v, want ErrMissingAPIKey", err)
	}
}

func TestPrintErrorHint(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, summarizer.ErrMissingAPIKey)
	requireContains(t, buf.String(), "Error:")
	requireContains(t, buf.String(), "GEMINI_API_KEY")

	buf.Reset()
	printError(&buf, errors.New("boom"))
	if strings.Contains(buf.String(), "comma separated") {
		t.Errorf("unrelated error printed the key hint: %q", buf.String())
	}
}
