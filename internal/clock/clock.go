// Package clock formats the wall clock and computes departure countdowns.
//
// Offsets are fixed hour values from configuration. There is no timezone
// database lookup, so the clock is wrong around DST transition dates until
// the DST flag is flipped by hand.
package clock

import (
	"errors"
	"fmt"
	"time"

	"github.com/fkcurrie/transit-led-golang/internal/types"
)

// ErrMalformedTimestamp is returned when a departure timestamp cannot be parsed
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// zoneless is accepted for timestamps that carry no designator; they are read as UTC
const zoneless = "2006-01-02T15:04:05"

// Service formats the wall clock using fixed offsets
type Service struct {
	StandardOffset int
	DSTOffset      int
	DST            bool
}

// NewService creates a clock service from configuration
func NewService(cfg types.ClockConfig) *Service {
	return &Service{
		StandardOffset: cfg.UTCOffsetHours,
		DSTOffset:      cfg.DSTOffsetHours,
		DST:            cfg.UsesDST,
	}
}

// Offset returns the UTC offset in hours currently in effect
func (s *Service) Offset() int {
	if s.DST {
		return s.DSTOffset
	}
	return s.StandardOffset
}

// FormatClock formats now as local "HH:MM"
func (s *Service) FormatClock(now time.Time) string {
	return FormatClock(now, s.Offset())
}

// FormatClock formats now shifted by utcOffsetHours as a 24-hour "HH:MM"
func FormatClock(now time.Time, utcOffsetHours int) string {
	return now.UTC().Add(time.Duration(utcOffsetHours) * time.Hour).Format("15:04")
}

// ParseTimestamp parses an ISO-8601 departure timestamp
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(zoneless, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}
	return t, nil
}

// TimeUntil returns the whole hours and remaining whole minutes from now until
// targetISO. Targets at or before now yield (0, 0).
func TimeUntil(targetISO string, now time.Time) (hours, minutes int, err error) {
	target, err := ParseTimestamp(targetISO)
	if err != nil {
		return 0, 0, err
	}

	d := target.Sub(now)
	if d <= 0 {
		return 0, 0, nil
	}

	hours = int(d / time.Hour)
	minutes = int((d % time.Hour) / time.Minute)
	return hours, minutes, nil
}

// Countdown renders a countdown the way the board shows it. An empty string
// means the train is due and no countdown is shown.
func Countdown(hours, minutes int) string {
	switch {
	case hours > 0:
		return fmt.Sprintf("%d hr %d min", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%d min", minutes)
	default:
		return ""
	}
}
