package transcript

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// State is a stage of a transcription run. The assembler moves through
// idle, transcribing and done; the diarizing stage belongs to the caller
// that builds the speaker index before assembly starts.
type State int

const (
	StateIdle State = iota
	StateDiarizing
	StateTranscribing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDiarizing:
		return "diarizing"
	case StateTranscribing:
		return "transcribing"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// separator joins consecutive segments of the same turn.
const separator = " "

// FormatMarker renders the speaker-change marker emitted before a new turn.
func FormatMarker(s Speaker) string {
	return "\n\n[" + s.Label() + "]\n"
}

// Stats summarizes a finished run.
type Stats struct {
	Segments int
	Turns    int
	Speakers int
}

// AssemblerOpt configures an Assembler.
type AssemblerOpt func(a *Assembler)

// WithSpeakers enables speaker attribution against index.
func WithSpeakers(index *SpeakerIndex) AssemblerOpt {
	return func(a *Assembler) {
		if index != nil {
			a.attributor = NewAttributor(index)
		}
	}
}

// WithObserver registers a callback fired once per processed segment.
func WithObserver(obs Observer) AssemblerOpt {
	return func(a *Assembler) {
		a.observer = obs
	}
}

// Assembler consumes a segment sequence and writes the transcript to a sink,
// flushing after every segment so the sink always holds whole segments.
type Assembler struct {
	sink       Sink
	attributor *Attributor
	observer   Observer

	state    State
	last     Speaker
	count    int
	turns    int
	speakers map[Speaker]struct{}
	out      strings.Builder
}

// NewAssembler creates an Assembler writing to sink. Without WithSpeakers the
// transcript is the plain space-joined segment text.
func NewAssembler(sink Sink, opts ...AssemblerOpt) *Assembler {
	a := &Assembler{
		sink:     sink,
		speakers: make(map[Speaker]struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run pulls every segment from seq in order and returns the full transcript.
// On error the sink keeps every segment completed before the failure.
func (a *Assembler) Run(ctx context.Context, seq SegmentSeq) (string, error) {
	if a.state != StateIdle {
		return "", fmt.Errorf("assembler already used (state %s)", a.state)
	}
	a.state = StateTranscribing

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		seg, ok, err := seq.Next(ctx)
		if err != nil {
			return "", fmt.Errorf("next segment: %w", err)
		}
		if !ok {
			break
		}
		if err := a.Append(seg); err != nil {
			return "", err
		}
	}

	a.state = StateDone
	return a.out.String(), nil
}

// Append processes one segment: optional marker, text, flush, progress tick.
func (a *Assembler) Append(seg Segment) error {
	text := strings.TrimSpace(seg.Text)

	var chunk strings.Builder
	newTurn := false
	if a.attributor != nil {
		speaker, isNew := a.attributor.Attribute(seg, a.last, a.count > 0)
		if isNew {
			chunk.WriteString(FormatMarker(speaker))
			newTurn = true
			a.turns++
		}
		a.last = speaker
		if speaker.Valid {
			a.speakers[speaker] = struct{}{}
		}
	}
	if a.count > 0 && !newTurn {
		chunk.WriteString(separator)
	}
	chunk.WriteString(text)

	piece := chunk.String()
	if _, err := io.WriteString(a.sink, piece); err != nil {
		return fmt.Errorf("write segment %d: %w", a.count+1, err)
	}
	if err := a.sink.Flush(); err != nil {
		return fmt.Errorf("flush segment %d: %w", a.count+1, err)
	}
	a.out.WriteString(piece)
	a.count++

	if a.observer != nil {
		a.observer(a.count)
	}
	return nil
}

// Text returns everything assembled so far.
func (a *Assembler) Text() string {
	return a.out.String()
}

// State returns the assembler's current stage.
func (a *Assembler) State() State {
	return a.state
}

// Stats returns counters for the segments processed so far.
func (a *Assembler) Stats() Stats {
	return Stats{
		Segments: a.count,
		Turns:    a.turns,
		Speakers: len(a.speakers),
	}
}
