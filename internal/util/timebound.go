package util

import (
	"strings"
	"time"
)

const dateOnly = "2006-01-02"

// ParseBound reads an optional range bound given as RFC3339 or YYYY-MM-DD.
// A bare date is the start of that UTC day, or its last nanosecond when
// endOfDay is set, so a date range stays inclusive at both ends. Empty input
// yields nil.
func ParseBound(raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateOnly, raw)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
