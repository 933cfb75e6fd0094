package processor

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/cant-be-bothered/internal/summarizer"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/transcriber"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/transcript"
)

// Processor runs the recording pipeline: prepare audio, transcribe,
// optionally summarize, then clean up.
type Processor interface {
	// Process runs the default job for one file. It matches the watcher's
	// handler signature.
	Process(ctx context.Context, audioPath string) error
	Run(ctx context.Context, job Job) (Report, error)
}

// Transcriber is the part of transcriber.Transcriber the pipeline needs.
type Transcriber interface {
	Run(ctx context.Context, req transcriber.Request) (transcriber.Result, error)
}

// Job is one pipeline run.
type Job struct {
	AudioPath string
	// Start and End clip the recording, clock format. Empty means unbounded.
	Start string
	End   string
	// Output overrides the transcript path, or the summary path when
	// Summarize is set.
	Output string
	// NoCleanup keeps the cbb_ work directory.
	NoCleanup bool

	Model       string
	Language    string
	Device      string
	ComputeType string

	Diarize     bool
	MinSpeakers int
	MaxSpeakers int

	Summarize    bool
	Mode         summarizer.Mode
	Instructions string
	Docx         bool

	// Archive moves the source recording to paths.archived when done.
	Archive bool
}

// Report describes a finished run.
type Report struct {
	Input      string
	Transcript string
	Summary    string
	Docx       string
	WorkDir    string

	Model    string
	Language string
	Diarized bool
	Stats    transcript.Stats
	Duration float64
	Tokens   int
	Elapsed  time.Duration

	Text        string
	SummaryText string
}
