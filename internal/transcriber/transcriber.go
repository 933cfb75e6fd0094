// Package transcriber wires recognition, optional diarization and the
// incremental assembler into the single transcribe operation.
package transcriber

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nguyentantai21042004/cant-be-bothered/internal/audio"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/diarizer"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/logger"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/recognizer"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/transcript"
)

// DefaultOutputFile is used when Request.OutputFile is empty.
const DefaultOutputFile = "output/transcript.txt"

// ErrAudioNotFound is returned when the input audio is missing or unreadable.
var ErrAudioNotFound = errors.New("audio file not found")

// ErrDiarizerUnavailable is returned when diarization is requested but no
// diarizer was configured.
var ErrDiarizerUnavailable = errors.New("diarization requested but no diarizer configured")

// Request describes one transcription.
type Request struct {
	AudioPath         string
	ModelSize         string
	Language          string
	Device            string
	ComputeType       string
	OutputFile        string
	EnableDiarization bool
	MinSpeakers       int
	MaxSpeakers       int
}

// Result is what a finished run produced.
type Result struct {
	Text       string
	OutputFile string
	Info       recognizer.Info
	Stats      transcript.Stats
	Elapsed    time.Duration
}

// ProgressFactory builds a per-run observer sized to the estimated number
// of segments. done is called once the run ends, successfully or not.
type ProgressFactory func(ctx context.Context, total int) (obs transcript.Observer, done func())

// Option configures a Transcriber.
type Option func(t *Transcriber)

// WithDiarizer enables Request.EnableDiarization.
func WithDiarizer(d diarizer.Diarizer) Option {
	return func(t *Transcriber) {
		t.diarizer = d
	}
}

// WithProgress reports per-segment progress through f.
func WithProgress(f ProgressFactory) Option {
	return func(t *Transcriber) {
		t.progress = f
	}
}

// WithStateObserver reports every stage the run enters.
func WithStateObserver(f func(ctx context.Context, s transcript.State)) Option {
	return func(t *Transcriber) {
		t.onState = f
	}
}

// WithRecognizeOptions sets the decoding options that Request does not carry.
func WithRecognizeOptions(opts recognizer.Options) Option {
	return func(t *Transcriber) {
		t.base = opts
	}
}

// Transcriber runs recognize, diarize, assemble for one file at a time.
type Transcriber struct {
	logger     logger.Logger
	recognizer recognizer.Recognizer
	diarizer   diarizer.Diarizer
	progress   ProgressFactory
	onState    func(ctx context.Context, s transcript.State)
	base       recognizer.Options
}

// New creates a Transcriber.
func New(l logger.Logger, rec recognizer.Recognizer, opts ...Option) *Transcriber {
	t := &Transcriber{
		logger:     l,
		recognizer: rec,
		base:       recognizer.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transcribe writes the transcript of req.AudioPath to req.OutputFile and
// returns the full text.
func (t *Transcriber) Transcribe(ctx context.Context, req Request) (string, error) {
	res, err := t.Run(ctx, req)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// Run is Transcribe returning run details.
func (t *Transcriber) Run(ctx context.Context, req Request) (Result, error) {
	started := time.Now()

	if req.OutputFile == "" {
		req.OutputFile = DefaultOutputFile
	}
	if err := checkReadable(req.AudioPath); err != nil {
		return Result{}, err
	}
	if req.EnableDiarization && t.diarizer == nil {
		return Result{}, ErrDiarizerUnavailable
	}

	seq, info, err := t.recognizer.Recognize(ctx, req.AudioPath, t.options(req))
	if err != nil {
		return Result{}, fmt.Errorf("recognize: %w", err)
	}
	defer seq.Close()

	var asmOpts []transcript.AssemblerOpt
	if req.EnableDiarization {
		t.enter(ctx, transcript.StateDiarizing)
		t.logger.Info(ctx, "Running speaker diarization")
		index, err := t.diarize(ctx, req)
		if err != nil {
			return Result{}, err
		}
		asmOpts = append(asmOpts, transcript.WithSpeakers(index))
	}

	sink, err := transcript.OpenFileSink(req.OutputFile)
	if err != nil {
		return Result{}, err
	}
	defer sink.Close()

	if t.progress != nil {
		obs, done := t.progress(ctx, transcript.EstimateUnits(info.Duration))
		defer done()
		asmOpts = append(asmOpts, transcript.WithObserver(obs))
	}

	t.enter(ctx, transcript.StateTranscribing)
	t.logger.Info(ctx, "Writing %s", req.OutputFile)
	asm := transcript.NewAssembler(sink, asmOpts...)
	text, err := asm.Run(ctx, seq)
	if err != nil {
		return Result{}, fmt.Errorf("transcribe %s: %w", req.AudioPath, err)
	}
	if err := sink.Close(); err != nil {
		return Result{}, err
	}

	stats := asm.Stats()
	t.enter(ctx, transcript.StateDone)
	t.logger.Info(ctx, "Transcribed %d segments, %d speaker turns", stats.Segments, stats.Turns)

	return Result{
		Text:       text,
		OutputFile: req.OutputFile,
		Info:       info,
		Stats:      stats,
		Elapsed:    time.Since(started),
	}, nil
}

func (t *Transcriber) enter(ctx context.Context, s transcript.State) {
	if t.onState != nil {
		t.onState(ctx, s)
	}
}

// options overlays the request's model fields on the configured defaults.
func (t *Transcriber) options(req Request) recognizer.Options {
	opts := t.base
	if req.ModelSize != "" {
		opts.Model = req.ModelSize
	}
	if req.Language != "" {
		opts.Language = req.Language
	}
	if req.Device != "" {
		opts.Device = req.Device
	}
	if req.ComputeType != "" {
		opts.ComputeType = req.ComputeType
	}
	return opts
}

func (t *Transcriber) diarize(ctx context.Context, req Request) (*transcript.SpeakerIndex, error) {
	wave, err := audio.LoadWaveform(req.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("load waveform: %w", err)
	}
	intervals, err := t.diarizer.Diarize(ctx, wave, diarizer.Options{
		MinSpeakers: req.MinSpeakers,
		MaxSpeakers: req.MaxSpeakers,
	})
	if err != nil {
		return nil, fmt.Errorf("diarize: %w", err)
	}
	return transcript.NewSpeakerIndex(intervals), nil
}

func checkReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrAudioNotFound, path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrAudioNotFound, path, err)
	}
	if st.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrAudioNotFound, path)
	}
	return nil
}
