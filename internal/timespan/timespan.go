// Package timespan parses the clock-style offsets accepted by --start and --end.
package timespan

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidFormat is returned for strings that are not ss, mm:ss or hh:mm:ss.
var ErrInvalidFormat = errors.New("invalid time format")

// Parse converts "hh:mm:ss[.ms]", "mm:ss[.ms]" or "ss[.ms]" into seconds.
// Components are not range checked, so "90" and "1:75" are accepted.
// NaN and infinities are rejected.
func Parse(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	values := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || !finite(v) {
			return 0, fmt.Errorf("invalid time component in %q: %w", s, ErrInvalidFormat)
		}
		values[i] = v
	}

	var sec float64
	switch len(values) {
	case 1:
		sec = values[0]
	case 2:
		sec = values[0]*60.0 + values[1]
	case 3:
		sec = values[0]*3600.0 + values[1]*60.0 + values[2]
	default:
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidFormat)
	}
	if !finite(sec) {
		return 0, fmt.Errorf("%q overflows: %w", s, ErrInvalidFormat)
	}
	return sec, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Duration is Parse returning a time.Duration.
func Duration(s string) (time.Duration, error) {
	sec, err := Parse(s)
	if err != nil {
		return 0, err
	}
	return time.Duration(sec * float64(time.Second)), nil
}

// Format renders seconds as mm:ss, or hh:mm:ss past the hour.
func Format(sec float64) string {
	d := time.Duration(sec*1000) * time.Millisecond
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
