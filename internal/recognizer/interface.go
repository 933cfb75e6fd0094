package recognizer

import (
	"context"

	"github.com/nguyentantai21042004/cant-be-bothered/internal/transcript"
)

// Recognizer turns an audio file into a lazy sequence of timed segments.
type Recognizer interface {
	// Recognize starts recognition. The returned sequence must be closed by the
	// caller; closing it early stops the underlying model.
	Recognize(ctx context.Context, audioPath string, opts Options) (transcript.SegmentSeq, Info, error)
}

// Options tune a single recognition run.
type Options struct {
	Model        string
	Language     string
	Device       string
	ComputeType  string
	BeamSize     int
	VAD          bool
	MinSilenceMs int
}

// Info is known once recognition has started.
type Info struct {
	// Duration of the audio in seconds. Zero when the backend cannot tell.
	Duration float64
	Language string
}
