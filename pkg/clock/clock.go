// Package clock converts millisecond offsets to and from the
// HH:MM:SS.mmm digital clock format used by the playback overlay.
package clock

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
)

// ErrInvalidClock is returned by Parse for strings not in HH:MM:SS.mmm form.
var ErrInvalidClock = errors.New("clock: invalid clock string")

// Format converts milliseconds to HH:MM:SS.mmm.
// The input is truncated to whole milliseconds. Hours widen past two digits
// as needed. Negative input is formatted as zero.
func Format(milliseconds float64) string {
	ms := int64(milliseconds)
	if ms < 0 {
		ms = 0
	}
	hours := ms / msPerHour
	ms %= msPerHour
	minutes := ms / msPerMinute
	ms %= msPerMinute
	seconds := ms / msPerSecond
	ms %= msPerSecond
	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, ms)
}

// FormatDuration formats d with millisecond precision.
func FormatDuration(d time.Duration) string {
	return Format(float64(d.Milliseconds()))
}

// Parse converts an HH:MM:SS.mmm string back to milliseconds.
func Parse(s string) (int64, error) {
	hms, frac, ok := strings.Cut(s, ".")
	if !ok || len(frac) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	parts := strings.Split(hms, ":")
	if len(parts) != 3 || len(parts[0]) < 2 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	fields := [4]string{parts[0], parts[1], parts[2], frac}
	var values [4]int64
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 10, 63)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
		values[i] = int64(v)
	}
	if values[1] > 59 || values[2] > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	return values[0]*msPerHour + values[1]*msPerMinute + values[2]*msPerSecond + values[3], nil
}
