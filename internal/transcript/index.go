package transcript

// SpeakerIndex answers which speaker is active at a point in time.
//
// Lookup is a linear scan in the order the diarizer produced the intervals, so
// when intervals overlap (including a shared boundary) the first one wins.
// Do not replace it with a search that could prefer a later interval.
type SpeakerIndex struct {
	intervals []SpeakerInterval
}

// NewSpeakerIndex copies intervals into a read-only index.
func NewSpeakerIndex(intervals []SpeakerInterval) *SpeakerIndex {
	cp := make([]SpeakerInterval, len(intervals))
	copy(cp, intervals)
	return &SpeakerIndex{intervals: cp}
}

// SpeakerAt returns the speaker of the first interval containing t, or the
// zero Speaker when t falls outside every interval.
func (x *SpeakerIndex) SpeakerAt(t float64) Speaker {
	for _, iv := range x.intervals {
		if iv.Contains(t) {
			return SpeakerOf(iv.Speaker)
		}
	}
	return Speaker{}
}

// Len returns the number of intervals held by the index.
func (x *SpeakerIndex) Len() int {
	return len(x.intervals)
}
