// Package timerange resolves a search window around an instant.
package timerange

import (
	"fmt"
	"strconv"
	"time"
)

// Range is a pair of instants. Start <= End unless a negative buffer was given.
type Range struct {
	Start time.Time
	End   time.Time
}

// Around returns (center-before, center+after). Negative buffers are allowed
// and shift the window rather than failing.
func Around(center time.Time, before, after time.Duration) Range {
	return Range{
		Start: center.Add(-before),
		End:   center.Add(after),
	}
}

// Symmetric returns Around(center, buffer, buffer).
func Symmetric(center time.Time, buffer time.Duration) Range {
	return Around(center, buffer, buffer)
}

// Contains reports whether start <= t <= end.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

func (r Range) String() string {
	return r.Start.Format(time.RFC3339) + "/" + r.End.Format(time.RFC3339)
}

// ParseBuffer parses a buffer given either as a duration ("90m", "1h30m") or
// as a bare number of minutes ("90").
func ParseBuffer(s string) (time.Duration, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Minute, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("parse buffer %q: %w", s, err)
	}
	return d, nil
}
