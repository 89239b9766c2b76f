package outage

import (
	"errors"
	"fmt"
	"time"
)

// dateLayout is the ISO calendar date format used by schedule providers.
const dateLayout = "2006-01-02"

// ErrInvalidDate is returned for schedule dates that are not "YYYY-MM-DD".
var ErrInvalidDate = errors.New("invalid schedule date")

// Date is a calendar date without a time zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	return DateOf(t), nil
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()

	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// DaySchedule holds the outage windows of every stage for one calendar date.
// Stages[0] is stage 1.
type DaySchedule struct {
	Date   Date
	Name   string
	Stages [][]TimeRange
}

// ParseDay builds a DaySchedule from provider strings.
// A stage with any malformed range is kept as an empty list so that stage
// numbering stays intact; the parse errors are joined into the returned error
// while the rest of the day is still usable. A malformed date rejects the day.
func ParseDay(date, name string, stages [][]string) (DaySchedule, error) {
	d, err := ParseDate(date)
	if err != nil {
		return DaySchedule{}, err
	}

	day := DaySchedule{
		Date:   d,
		Name:   name,
		Stages: make([][]TimeRange, len(stages)),
	}

	var errs []error

	for i, raw := range stages {
		ranges := make([]TimeRange, 0, len(raw))

		for _, s := range raw {
			r, err := ParseRange(s)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s stage %d: %w", date, i+1, err))
				ranges = nil

				break
			}

			ranges = append(ranges, r)
		}

		day.Stages[i] = ranges
	}

	return day, errors.Join(errs...)
}

// Ranges returns the windows of the given 1-based stage, or nil when the
// stage is zero or not published for this day.
func (d DaySchedule) Ranges(stage int) []TimeRange {
	if stage < 1 || stage > len(d.Stages) {
		return nil
	}

	return d.Stages[stage-1]
}

// Clone returns a deep copy of the day.
func (d DaySchedule) Clone() DaySchedule {
	stages := make([][]TimeRange, len(d.Stages))
	for i, s := range d.Stages {
		if s != nil {
			stages[i] = append(make([]TimeRange, 0, len(s)), s...)
		}
	}

	d.Stages = stages

	return d
}

// FindDay returns the schedule published for date.
func FindDay(days []DaySchedule, date Date) (DaySchedule, bool) {
	for _, d := range days {
		if d.Date == date {
			return d, true
		}
	}

	return DaySchedule{}, false
}

// Area is everything known about the configured area after a schedule fetch.
type Area struct {
	Name   string
	Region string
	Source string
	Days   []DaySchedule
	Events []Event
}

// Clone returns a deep copy of the area.
func (a Area) Clone() Area {
	if a.Days != nil {
		days := make([]DaySchedule, len(a.Days))
		for i, d := range a.Days {
			days[i] = d.Clone()
		}

		a.Days = days
	}

	if a.Events != nil {
		a.Events = append(make([]Event, 0, len(a.Events)), a.Events...)
	}

	return a
}
