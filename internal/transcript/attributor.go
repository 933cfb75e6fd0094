package transcript

// Attributor maps segments to speakers using midpoint attribution.
type Attributor struct {
	index *SpeakerIndex
}

// NewAttributor creates an Attributor backed by index.
func NewAttributor(index *SpeakerIndex) *Attributor {
	return &Attributor{index: index}
}

// Attribute returns the speaker active at the segment midpoint and whether it
// starts a new turn. started is false for the first segment of a run, which
// always opens a turn. A move into or out of a diarization gap is a turn change.
func (a *Attributor) Attribute(seg Segment, previous Speaker, started bool) (Speaker, bool) {
	speaker := a.index.SpeakerAt(seg.Midpoint())
	return speaker, !started || speaker != previous
}
