package diarizer

import (
	"bufio"
	"context"
	_ "embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/nguyentantai21042004/cant-be-bothered/internal/audio"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/config"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/logger"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/transcript"
	"github.com/nguyentantai21042004/cant-be-bothered/pkg/executor"
)

//go:embed scripts/pyannote.py
var pyannoteScript string

// chunkSamples is how many samples are encoded per write to the helper.
const chunkSamples = 64 * 1024

// Pyannote runs a pyannote.audio pipeline in a Python subprocess. The
// waveform is streamed to the helper's stdin as little-endian float32.
type Pyannote struct {
	logger   logger.Logger
	executor executor.Executor
	python   string
	cfg      config.DiarizationConfig
}

// New creates a pyannote diarizer.
func New(l logger.Logger, exec executor.Executor, python string, cfg config.DiarizationConfig) *Pyannote {
	if python == "" {
		python = "python3"
	}
	return &Pyannote{logger: l, executor: exec, python: python, cfg: cfg}
}

func (p *Pyannote) Diarize(ctx context.Context, wave audio.Waveform, opts Options) ([]transcript.SpeakerInterval, error) {
	if opts.MinSpeakers > 0 && opts.MaxSpeakers > 0 && opts.MinSpeakers > opts.MaxSpeakers {
		return nil, fmt.Errorf("min speakers %d exceeds max speakers %d", opts.MinSpeakers, opts.MaxSpeakers)
	}
	if p.cfg.HFToken == "" {
		p.logger.Warn(ctx, "HF_TOKEN is not set, gated pyannote models will fail to download")
	}

	args := []string{"-c", pyannoteScript,
		"--sample-rate", strconv.Itoa(wave.SampleRate),
		"--pipeline", p.cfg.Pipeline,
		"--device", p.cfg.Device,
		"--min-speakers", strconv.Itoa(opts.MinSpeakers),
		"--max-speakers", strconv.Itoa(opts.MaxSpeakers),
	}

	p.logger.Info(ctx, "Diarizing %.1fs of audio with %s", wave.Duration(), p.cfg.Pipeline)

	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(writeSamples(pw, wave.Samples))
	}()
	defer pr.Close()

	proc, err := p.executor.Start(ctx, pr, p.python, args...)
	if err != nil {
		return nil, fmt.Errorf("start diarization: %w", err)
	}

	out, readErr := io.ReadAll(proc.Stdout())
	if err := proc.Wait(); err != nil {
		return nil, fmt.Errorf("diarization: %w", err)
	}
	if readErr != nil {
		return nil, fmt.Errorf("read diarization output: %w", readErr)
	}

	var intervals []transcript.SpeakerInterval
	if err := json.Unmarshal(out, &intervals); err != nil {
		return nil, fmt.Errorf("decode diarization output: %w", err)
	}

	p.logger.Info(ctx, "Diarization found %d speaker turns", len(intervals))
	return intervals, nil
}

// writeSamples encodes samples as raw little-endian float32.
func writeSamples(w io.Writer, samples []float32) error {
	bw := bufio.NewWriterSize(w, chunkSamples*4)
	for start := 0; start < len(samples); start += chunkSamples {
		end := min(start+chunkSamples, len(samples))
		if err := binary.Write(bw, binary.LittleEndian, samples[start:end]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
