package transcript

import (
	"context"
	"io"
)

// Segment is one recognized utterance. Times are in seconds.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// Midpoint returns the instant used for speaker attribution.
func (s Segment) Midpoint() float64 {
	return (s.Start + s.End) / 2.0
}

// SpeakerInterval is one contiguous stretch of time attributed to a single speaker.
type SpeakerInterval struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
}

// Contains reports whether t falls inside the interval, both ends inclusive.
func (i SpeakerInterval) Contains(t float64) bool {
	return i.Start <= t && t <= i.End
}

// Speaker is the speaker attributed to a segment. The zero value means no
// diarization interval was active.
type Speaker struct {
	ID    string
	Valid bool
}

// UnknownSpeakerLabel is printed for segments that fall into a diarization
// gap. Diarizers emit word-like ids, so it cannot be mistaken for a speaker.
const UnknownSpeakerLabel = "?"

// SpeakerOf wraps a diarization speaker id.
func SpeakerOf(id string) Speaker {
	return Speaker{ID: id, Valid: true}
}

// Label returns the text printed inside a speaker marker.
func (s Speaker) Label() string {
	if !s.Valid {
		return UnknownSpeakerLabel
	}
	return s.ID
}

// SegmentSeq is a one-pass, pull-based sequence of segments in non-decreasing
// start order. Next returns ok=false once the sequence is exhausted.
type SegmentSeq interface {
	Next(ctx context.Context) (seg Segment, ok bool, err error)
	io.Closer
}

type sliceSeq struct {
	segments []Segment
	pos      int
}

// NewSliceSeq exposes an already materialized slice as a SegmentSeq.
func NewSliceSeq(segments []Segment) SegmentSeq {
	return &sliceSeq{segments: segments}
}

func (s *sliceSeq) Next(ctx context.Context) (Segment, bool, error) {
	if err := ctx.Err(); err != nil {
		return Segment{}, false, err
	}
	if s.pos >= len(s.segments) {
		return Segment{}, false, nil
	}
	seg := s.segments[s.pos]
	s.pos++
	return seg, true, nil
}

func (s *sliceSeq) Close() error {
	s.pos = len(s.segments)
	return nil
}
