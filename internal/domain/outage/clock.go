package outage

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidClock is returned for time-of-day values that are not "HH:mm".
	ErrInvalidClock = errors.New("invalid time of day")
	// ErrInvalidRange is returned for ranges that are not "HH:mm-HH:mm".
	ErrInvalidRange = errors.New("invalid time range")
)

// Clock is a wall-clock time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:mm" (a single-digit hour is accepted).
func ParseClock(s string) (Clock, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	if len(mm) != 2 { //nolint:mnd // Minutes are always two digits.
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	return Clock{Hour: hour, Minute: minute}, nil
}

// On resolves the clock on the given date in loc.
func (c Clock) On(d Date, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, c.Hour, c.Minute, 0, 0, loc)
}

// Before reports whether c is earlier in the day than o.
func (c Clock) Before(o Clock) bool {
	return c.Hour < o.Hour || (c.Hour == o.Hour && c.Minute < o.Minute)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// TimeRange is one outage window within a day.
type TimeRange struct {
	Start Clock
	End   Clock
}

// ParseRange parses "HH:mm-HH:mm".
func ParseRange(s string) (TimeRange, error) {
	from, to, ok := strings.Cut(s, "-")
	if !ok {
		return TimeRange{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}

	start, err := ParseClock(from)
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: %q: %w", ErrInvalidRange, s, err)
	}

	end, err := ParseClock(to)
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: %q: %w", ErrInvalidRange, s, err)
	}

	return TimeRange{Start: start, End: end}, nil
}

// Overnight reports whether the range ends on the following day, e.g. "22:00-00:30".
func (r TimeRange) Overnight() bool {
	return !r.Start.Before(r.End)
}

func (r TimeRange) String() string {
	return r.Start.String() + "-" + r.End.String()
}
