package transcript

import "testing"

func TestEstimateUnits(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		want     int
	}{
		{"one hour", 3600, 720},
		{"partial unit rounds down", 12.9, 2},
		{"shorter than one unit", 3, fallbackUnits},
		{"unknown duration", 0, fallbackUnits},
		{"negative duration", -5, fallbackUnits},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateUnits(tt.duration); got != tt.want {
				t.Errorf("EstimateUnits(%v) = %d, want %d", tt.duration, got, tt.want)
			}
		})
	}
}
