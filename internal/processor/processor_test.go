package processor

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/nguyentantai21042004/cant-be-bothered/internal/config"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/logger"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/recognizer"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/summarizer"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/transcriber"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/transcript"
)

type call struct {
	op            string
	input, output string
}

type fakePreparer struct {
	mu    sync.Mutex
	calls []call
}

func (f *fakePreparer) record(op, input, output string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{op, input, output})
	f.mu.Unlock()
	return output, os.WriteFile(output, []byte("RIFF"), 0o644)
}

func (f *fakePreparer) Convert(ctx context.Context, input, output string) (string, error) {
	return f.record("convert", input, output)
}

func (f *fakePreparer) Cut(ctx context.Context, input, output, start, end string) (string, error) {
	return f.record("cut", input, output)
}

type fakeTranscriber struct {
	req  transcriber.Request
	text string
	err  error
}

func (f *fakeTranscriber) Run(ctx context.Context, req transcriber.Request) (transcriber.Result, error) {
	f.req = req
	if f.err != nil {
		return transcriber.Result{}, f.err
	}
	if err := os.MkdirAll(filepath.Dir(req.OutputFile), 0o755); err != nil {
		return transcriber.Result{}, err
	}
	if err := os.WriteFile(req.OutputFile, []byte(f.text), 0o644); err != nil {
		return transcriber.Result{}, err
	}
	return transcriber.Result{
		Text:       f.text,
		OutputFile: req.OutputFile,
		Info:       recognizer.Info{Duration: 42, Language: "sk"},
		Stats:      transcript.Stats{Segments: 3, Turns: 2, Speakers: 2},
	}, nil
}

type fakeSummarizer struct {
	summarizer.Summarizer
	called string
}

func (f *fakeSummarizer) GenerateMinutes(ctx context.Context, text, date string) (string, error) {
	f.called = "minutes"
	return "# Zápisnica\n\n- **Rozhodnutie:** áno", nil
}

func (f *fakeSummarizer) GenerateSimpleSummary(ctx context.Context, text string) (string, error) {
	f.called = "simple"
	return "- bod", nil
}

func (f *fakeSummarizer) GenerateCustom(ctx context.Context, text, instructions string) (string, error) {
	f.called = "custom:" + instructions
	return "custom", nil
}

func (f *fakeSummarizer) CountTokens(ctx context.Context, text string) (int, error) {
	return len(strings.Fields(text)), nil
}

func quietLogger() logger.Logger {
	return logger.NewWithOptions(logger.Options{Level: "error", Writer: io.Discard})
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.Paths.Output = filepath.Join(root, "output")
	cfg.Paths.Archived = filepath.Join(root, "archived")
	cfg.Paths.Temp = filepath.Join(root, "tmp")
	return cfg
}

func writeInput(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func workDirs(t *testing.T, cfg *config.Config) []string {
	t.Helper()
	entries, err := os.ReadDir(cfg.Paths.Temp)
	if err != nil {
		return nil
	}
	var dirs []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), workDirPrefix) {
			dirs = append(dirs, e.Name())
		}
	}
	return dirs
}

func TestRunTranscribeOnly(t *testing.T) {
	cfg := testConfig(t)
	input := writeInput(t, "meeting.mp3")
	prep := &fakePreparer{}
	tr := &fakeTranscriber{text: "Hello world"}

	report, err := New(cfg, quietLogger(), prep, tr).Run(context.Background(), Job{AudioPath: input, Model: "small"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	wantTranscript := filepath.Join(cfg.Paths.Output, "meeting.txt")
	if report.Transcript != wantTranscript || tr.req.OutputFile != wantTranscript {
		t.Errorf("transcript path = %q / %q, want %q", report.Transcript, tr.req.OutputFile, wantTranscript)
	}
	if len(prep.calls) != 1 || prep.calls[0].op != "convert" {
		t.Fatalf("preparer calls = %+v, want one convert", prep.calls)
	}
	if tr.req.AudioPath != prep.calls[0].output {
		t.Errorf("transcriber got %q, want converted %q", tr.req.AudioPath, prep.calls[0].output)
	}
	if tr.req.ModelSize != "small" {
		t.Errorf("model = %q", tr.req.ModelSize)
	}
	if report.Summary != "" || report.Stats.Segments != 3 || report.Duration != 42 {
		t.Errorf("report = %+v", report)
	}
	if dirs := workDirs(t, cfg); len(dirs) != 0 {
		t.Errorf("work dirs left behind: %v", dirs)
	}
	if _, err := os.Stat(input); err != nil {
		t.Error("input should stay in place without Archive")
	}
}

func TestRunCutConvertsFirst(t *testing.T) {
	cfg := testConfig(t)
	input := writeInput(t, "call.m4a")
	prep := &fakePreparer{}

	_, err := New(cfg, quietLogger(), prep, &fakeTranscriber{}).Run(context.Background(), Job{
		AudioPath: input,
		Start:     "1:00",
		End:       "2:00",
		NoCleanup: true,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var ops []string
	for _, c := range prep.calls {
		ops = append(ops, c.op)
	}
	if strings.Join(ops, ",") != "convert,cut" {
		t.Errorf("operations = %v, want convert then cut", ops)
	}
	if filepath.Base(prep.calls[1].output) != "cut_call.wav" {
		t.Errorf("cut output = %q", prep.calls[1].output)
	}
	if dirs := workDirs(t, cfg); len(dirs) != 1 {
		t.Errorf("work dirs = %v, want one kept with NoCleanup", dirs)
	}
}

func TestRunSummarize(t *testing.T) {
	tests := []struct {
		name        string
		job         Job
		wantCall    string
		wantSummary string
	}{
		{"minutes", Job{Summarize: true}, "minutes", "meeting.md"},
		{"simple", Job{Summarize: true, Mode: summarizer.ModeSimple}, "simple", "meeting.md"},
		{"custom", Job{Summarize: true, Instructions: "List tasks"}, "custom:List tasks", "meeting.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			sum := &fakeSummarizer{}
			job := tt.job
			job.AudioPath = writeInput(t, "meeting.wav")
			job.Docx = true

			report, err := New(cfg, quietLogger(), &fakePreparer{}, &fakeTranscriber{text: "a b c"}, WithSummarizer(sum)).Run(context.Background(), job)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if sum.called != tt.wantCall {
				t.Errorf("summarizer call = %q, want %q", sum.called, tt.wantCall)
			}
			if filepath.Base(report.Summary) != tt.wantSummary {
				t.Errorf("summary path = %q", report.Summary)
			}
			if filepath.Base(report.Transcript) != "meeting.txt" {
				t.Errorf("transcript path = %q", report.Transcript)
			}
			if report.Tokens != 3 {
				t.Errorf("tokens = %d, want 3", report.Tokens)
			}
			if _, err := os.Stat(report.Summary); err != nil {
				t.Errorf("summary not written: %v", err)
			}
			if filepath.Base(report.Docx) != "meeting.docx" {
				t.Errorf("docx = %q", report.Docx)
			}
		})
	}
}

func TestOutputPaths(t *testing.T) {
	cfg := testConfig(t)
	p := New(cfg, quietLogger(), &fakePreparer{}, &fakeTranscriber{}).(*implProcessor)

	tests := []struct {
		name           string
		job            Job
		wantTranscript string
		wantSummary    string
	}{
		{"default", Job{AudioPath: "rec/a.mp3"}, filepath.Join(cfg.Paths.Output, "a.txt"), ""},
		{"explicit", Job{AudioPath: "a.mp3", Output: "x/out.txt"}, "x/out.txt", ""},
		{"summary default", Job{AudioPath: "a.mp3", Summarize: true}, filepath.Join(cfg.Paths.Output, "a.txt"), filepath.Join(cfg.Paths.Output, "a.md")},
		{"summary explicit", Job{AudioPath: "a.mp3", Summarize: true, Output: "x/min.md"}, "x/min.txt", "x/min.md"},
		{"summary to txt", Job{AudioPath: "a.mp3", Summarize: true, Output: "x/min.txt"}, "x/min.txt", "x/min.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotT, gotS := p.outputPaths(tt.job)
			if gotT != tt.wantTranscript || gotS != tt.wantSummary {
				t.Errorf("outputPaths() = %q, %q; want %q, %q", gotT, gotS, tt.wantTranscript, tt.wantSummary)
			}
		})
	}
}

func TestRunFailures(t *testing.T) {
	cfg := testConfig(t)
	input := writeInput(t, "a.mp3")
	boom := errors.New("model load failed")

	tests := []struct {
		name    string
		job     Job
		tr      *fakeTranscriber
		wantErr error
	}{
		{"missing input", Job{AudioPath: filepath.Join(t.TempDir(), "nope.mp3")}, &fakeTranscriber{}, transcriber.ErrAudioNotFound},
		{"summary without key", Job{AudioPath: input, Summarize: true}, &fakeTranscriber{}, summarizer.ErrMissingAPIKey},
		{"transcriber fails", Job{AudioPath: input}, &fakeTranscriber{err: boom}, boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(cfg, quietLogger(), &fakePreparer{}, tt.tr).Run(context.Background(), tt.job)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Run() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if dirs := workDirs(t, cfg); len(dirs) != 0 {
		t.Errorf("work dirs left after failures: %v", dirs)
	}
}

func TestProcessArchives(t *testing.T) {
	cfg := testConfig(t)
	input := writeInput(t, "drop.mp3")

	p := New(cfg, quietLogger(), &fakePreparer{}, &fakeTranscriber{text: "x"}, WithDefaults(Job{Archive: true, Language: "en"}))
	if err := p.Process(context.Background(), input); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.Archived, "drop.mp3")); err != nil {
		t.Errorf("input not archived: %v", err)
	}
	if _, err := os.Stat(input); !os.IsNotExist(err) {
		t.Error("input still in drop folder")
	}
}

func TestSemaphore(t *testing.T) {
	s := newSemaphore(1)
	if err := s.acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("acquire() on full semaphore = %v, want context.Canceled", err)
	}
	s.release()
	if err := s.acquire(context.Background()); err != nil {
		t.Errorf("acquire() after release = %v", err)
	}
}
