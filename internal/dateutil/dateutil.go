// Package dateutil formats and parses the dates used across the API and the
// import files.
package dateutil

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

const secondsPerDay = 24 * 60 * 60

// Format renders t with a Go layout, DateLayout when layout is empty.
func Format(t time.Time, layout string) string {
	if layout == "" {
		layout = DateLayout
	}
	return t.Format(layout)
}

// Parse reads a date in any common textual form ("2024-03-01",
// "March 1, 2024", RFC 3339, unix seconds, ...). Values without a zone are
// taken as UTC.
func Parse(value string) (time.Time, error) {
	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return t, nil
}

// DaysBetween counts calendar days from start to end; negative when end is
// before start. Times of day are ignored.
func DaysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int((e.Unix() - s.Unix()) / secondsPerDay)
}
