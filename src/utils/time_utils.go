package utils

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// timestampLayouts are tried in order. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp accepts the timestamp spellings produced by the dashboard
// payload builders:
// - "2024-01-01T00:00:00Z" / "2024-01-01T00:00:00+02:00"
// - "2024-01-01T00:00:00" (naive, UTC)
// - "2024-01-01 00:00:00"
// - "2024-01-01"
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	var lastErr error
	for _, layout := range timestampLayouts {
		tt, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return tt, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, lastErr)
}

// maxUnixSeconds is roughly the year 5138; larger values are not timestamps.
const maxUnixSeconds = 1e11

// UnixSeconds converts unix seconds (fractional part kept to the microsecond) into UTC time.
func UnixSeconds(seconds float64) (time.Time, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return time.Time{}, fmt.Errorf("invalid unix timestamp %v", seconds)
	}
	if math.Abs(seconds) > maxUnixSeconds {
		return time.Time{}, fmt.Errorf("unix timestamp %v out of range", seconds)
	}
	whole, frac := math.Modf(seconds)
	micros := math.Round(frac * 1e6)
	return time.Unix(int64(whole), int64(micros)*int64(time.Microsecond)).UTC(), nil
}
