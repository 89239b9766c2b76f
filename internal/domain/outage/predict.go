package outage

import "time"

// PredictionInput is everything known at decision time.
type PredictionInput struct {
	// Now is the current wall-clock time.
	Now time.Time
	// Location is the zone schedule dates and times are expressed in.
	// Nil means Now's location.
	Location *time.Location
	// Days is the published schedule, one entry per calendar date.
	Days []DaySchedule
	// Stage is the current stage from the stage feed; ignored when Event is set.
	Stage int
	// Event is the current or next announced outage, if any.
	Event *Event
}

// EffectiveStage returns the stage prediction is based on.
// An event always wins, so an event whose note carries no stage (stage 0)
// masks a stage feed reporting load-shedding.
func (in PredictionInput) EffectiveStage() int {
	if in.Event != nil {
		return in.Event.Stage
	}

	return in.Stage
}

// NextOutageStart returns the moment power is expected to be cut next.
//
// While an event is active, today's windows for the event stage are searched
// for the first one starting strictly after now; the result must lie after now.
// Otherwise the day containing the event start (or today, without an event)
// is searched the same way and the result is returned as is.
// When no window starts after now, the first window of that same day is used.
func NextOutageStart(in PredictionInput) (time.Time, bool) {
	loc := in.Location
	if loc == nil {
		loc = in.Now.Location()
	}

	now := in.Now.In(loc)

	stage := in.EffectiveStage()
	if stage < 1 {
		return time.Time{}, false
	}

	if in.Event != nil && in.Event.ActiveAt(now) {
		at, ok := nextRangeStart(in.Days, DateOf(now), stage, now, loc)
		if !ok || !at.After(now) {
			return time.Time{}, false
		}

		return at, true
	}

	date := DateOf(now)
	if in.Event != nil {
		date = DateOf(in.Event.Start.In(loc))
	}

	return nextRangeStart(in.Days, date, stage, now, loc)
}

// nextRangeStart resolves the first window of stage on date that starts after
// now, falling back to the day's first window.
func nextRangeStart(days []DaySchedule, date Date, stage int, now time.Time, loc *time.Location) (time.Time, bool) {
	day, ok := FindDay(days, date)
	if !ok {
		return time.Time{}, false
	}

	ranges := day.Ranges(stage)
	if len(ranges) == 0 {
		return time.Time{}, false
	}

	for _, r := range ranges {
		if at := r.Start.On(date, loc); at.After(now) {
			return at, true
		}
	}

	// Same-day wrap: the result may lie at or before now.
	return ranges[0].Start.On(date, loc), true
}
