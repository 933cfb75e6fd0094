package diarizer

import (
	"context"

	"github.com/nguyentantai21042004/cant-be-bothered/internal/audio"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/transcript"
)

// Diarizer splits a recording into speaker turns.
type Diarizer interface {
	// Diarize returns intervals in the backend's native order. Overlapping
	// intervals are allowed.
	Diarize(ctx context.Context, wave audio.Waveform, opts Options) ([]transcript.SpeakerInterval, error)
}

// Options bound the number of speakers the pipeline may find. Zero leaves a
// bound open.
type Options struct {
	MinSpeakers int
	MaxSpeakers int
}
