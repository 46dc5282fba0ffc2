// Package dates handles the dd/mm/yyyy date strings used across the
// LocalHire document store. The mobile clients have historically written
// inconsistent date values, so parsing never fails hard: a malformed
// string simply reports ok=false and the caller drops the record from
// date-based filtering.
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDisplayDate parses a strict dd/mm/yyyy string. It accepts exactly
// three slash-separated numeric parts and returns ok=false for anything
// else (empty input, wrong part count, non-numeric components).
func ParseDisplayDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, false
	}

	// time.Date normalises out-of-range day/month values the same way the
	// JS Date constructor did, so 31/02/2025 rolls over rather than failing.
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), true
}

// Today returns the current date normalised to local midnight. It is the
// lower bound for every "upcoming job" comparison.
func Today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
}

// FormatForStorage renders a date as zero-padded dd/mm/yyyy — the
// canonical persisted representation. Round-trips exactly through
// ParseDisplayDate to day precision.
func FormatForStorage(t time.Time) string {
	return fmt.Sprintf("%02d/%02d/%04d", t.Day(), int(t.Month()), t.Year())
}
