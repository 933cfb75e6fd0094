package recognizer

import (
	"bufio"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/nguyentantai21042004/cant-be-bothered/internal/logger"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/transcript"
	"github.com/nguyentantai21042004/cant-be-bothered/pkg/executor"
)

//go:embed scripts/fasterwhisper.py
var fasterWhisperScript string

// maxLine bounds one JSON line from the helper. Long segments with
// non-ASCII text can exceed bufio's 64K default.
const maxLine = 4 * 1024 * 1024

// line is one JSON record written by the helper script.
type line struct {
	Type     string  `json:"type"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Text     string  `json:"text"`
	Duration float64 `json:"duration"`
	Language string  `json:"language"`
}

// FasterWhisper runs faster-whisper in a Python subprocess and streams its
// segments back over stdout.
type FasterWhisper struct {
	logger   logger.Logger
	executor executor.Executor
	python   string
}

// NewFasterWhisper creates a recognizer that runs the given Python interpreter.
func NewFasterWhisper(l logger.Logger, exec executor.Executor, python string) *FasterWhisper {
	if python == "" {
		python = "python3"
	}
	return &FasterWhisper{logger: l, executor: exec, python: python}
}

func (f *FasterWhisper) Recognize(ctx context.Context, audioPath string, opts Options) (transcript.SegmentSeq, Info, error) {
	computeType := EffectiveComputeType(opts.Device, opts.ComputeType)
	f.logger.Info(ctx, "Loading Whisper model %s (device=%s, compute=%s)", opts.Model, opts.Device, computeType)

	args := []string{"-c", fasterWhisperScript, audioPath,
		"--model", opts.Model,
		"--device", opts.Device,
		"--compute-type", computeType,
		"--beam-size", strconv.Itoa(opts.BeamSize),
		"--min-silence-ms", strconv.Itoa(opts.MinSilenceMs),
	}
	if lang := languageOrAuto(opts.Language); lang != "" {
		args = append(args, "--language", lang)
	}
	if opts.VAD {
		args = append(args, "--vad")
	}

	procCtx, cancel := context.WithCancel(ctx)
	proc, err := f.executor.Start(procCtx, nil, f.python, args...)
	if err != nil {
		cancel()
		return nil, Info{}, fmt.Errorf("start faster-whisper: %w", err)
	}

	scanner := bufio.NewScanner(proc.Stdout())
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	seq := &lineSeq{scanner: scanner, proc: proc, cancel: cancel}

	// The helper prints the info record once the model is loaded and
	// before the first segment is decoded.
	first, ok, err := seq.next()
	if err != nil || !ok || first.Type != "info" {
		seq.Close()
		if err == nil {
			err = errors.New("helper exited before reporting audio info")
		}
		return nil, Info{}, fmt.Errorf("faster-whisper: %w", err)
	}

	info := Info{Duration: first.Duration, Language: first.Language}
	f.logger.Info(ctx, "Whisper model loaded, audio %.1fs, language %s", info.Duration, info.Language)
	return seq, info, nil
}

type lineSeq struct {
	scanner *bufio.Scanner
	proc    executor.Process
	cancel  context.CancelFunc
	closed  bool
}

func (s *lineSeq) next() (line, bool, error) {
	for s.scanner.Scan() {
		raw := s.scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var l line
		if err := json.Unmarshal(raw, &l); err != nil {
			return line{}, false, fmt.Errorf("decode helper output: %w", err)
		}
		return l, true, nil
	}
	if err := s.scanner.Err(); err != nil {
		return line{}, false, fmt.Errorf("read helper output: %w", err)
	}
	if err := s.proc.Wait(); err != nil {
		return line{}, false, err
	}
	return line{}, false, nil
}

func (s *lineSeq) Next(ctx context.Context) (transcript.Segment, bool, error) {
	if err := ctx.Err(); err != nil {
		return transcript.Segment{}, false, err
	}
	if s.closed {
		return transcript.Segment{}, false, nil
	}
	for {
		l, ok, err := s.next()
		if err != nil || !ok {
			return transcript.Segment{}, false, err
		}
		if l.Type != "segment" {
			continue
		}
		return transcript.Segment{Start: l.Start, End: l.End, Text: l.Text}, true, nil
	}
}

// Close stops the helper if it is still running.
func (s *lineSeq) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.cancel()
	// the process was killed on purpose, its exit status is noise
	_ = s.proc.Wait()
	return nil
}
