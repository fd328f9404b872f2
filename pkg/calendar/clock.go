package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidClock is returned for times that are not HH:MM
var ErrInvalidClock = errors.New("invalid clock time")

// rangeSeparator joins the two ends of a displayed shift window
const rangeSeparator = " - "

const (
	minutesPerDay = 24 * 60
	lastMinute    = minutesPerDay - 1
)

// Clock is a time of day in minutes since midnight
type Clock int

// ParseClock parses "HH:MM" (or "H:MM")
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return Clock(t.Hour()*60 + t.Minute()), nil
}

// MustClock parses a literal and panics on failure. Only for compile-time constants.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Add shifts the clock by d, clamped to the same day
func (c Clock) Add(d time.Duration) Clock {
	m := int(c) + int(d/time.Minute)
	if m < 0 {
		return 0
	}
	if m > lastMinute {
		return lastMinute
	}
	return Clock(m)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// TimeRange is a same-day window such as a shift or opening hours
type TimeRange struct {
	Start Clock
	End   Clock
}

// NewRange parses the two ends of a window
func NewRange(start, end string) (TimeRange, error) {
	s, err := ParseClock(start)
	if err != nil {
		return TimeRange{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return TimeRange{}, err
	}
	return TimeRange{Start: s, End: e}, nil
}

// MustRange builds a window from literals
func MustRange(start, end string) TimeRange {
	return TimeRange{Start: MustClock(start), End: MustClock(end)}
}

// ParseRange parses the displayed "HH:MM - HH:MM" form
func ParseRange(s string) (TimeRange, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return TimeRange{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return NewRange(parts[0], parts[1])
}

// Pad widens the window by d on both sides
func (r TimeRange) Pad(d time.Duration) TimeRange {
	return TimeRange{Start: r.Start.Add(-d), End: r.End.Add(d)}
}

// Duration is the length of the window, zero when inverted
func (r TimeRange) Duration() time.Duration {
	if r.End <= r.Start {
		return 0
	}
	return time.Duration(r.End-r.Start) * time.Minute
}

func (r TimeRange) String() string {
	return r.Start.String() + rangeSeparator + r.End.String()
}
