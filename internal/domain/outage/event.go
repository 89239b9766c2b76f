package outage

import (
	"regexp"
	"strconv"
	"time"
)

// stageDigits finds the first integer in an event note such as "Stage 2 (TESTING: current)".
var stageDigits = regexp.MustCompile(`\d+`)

// Event is an announced outage window for the area.
type Event struct {
	// Stage is the load-shedding stage; 0 means no outage is declared.
	Stage int
	Start time.Time
	End   time.Time
	// Note is the provider's free-text description the stage was read from.
	Note string
}

// StageFromNote returns the first integer embedded in note, or 0 when there is none.
func StageFromNote(note string) int {
	m := stageDigits.FindString(note)
	if m == "" {
		return 0
	}

	stage, err := strconv.Atoi(m)
	if err != nil || stage < 0 {
		return 0
	}

	return stage
}

// ActiveAt reports whether now falls within [Start, End).
func (e Event) ActiveAt(now time.Time) bool {
	return !now.Before(e.Start) && now.Before(e.End)
}

// FirstEvent returns the event that drives prediction: the first listed event
// that has not ended yet. Providers list events chronologically, so this is
// the current event or the next one.
func FirstEvent(events []Event, now time.Time) (Event, bool) {
	for _, e := range events {
		if now.Before(e.End) {
			return e, true
		}
	}

	return Event{}, false
}
