package transcript

// secondsPerSegment is a rough average used only to size progress bars.
const secondsPerSegment = 5

// fallbackUnits sizes the progress bar when the duration is unknown.
const fallbackUnits = 100

// Observer is notified once per processed segment with the running count.
type Observer func(done int)

// EstimateUnits converts an audio duration into an approximate segment count.
func EstimateUnits(duration float64) int {
	units := int(duration / secondsPerSegment)
	if units <= 0 {
		return fallbackUnits
	}
	return units
}
