package outage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func sast() *time.Location {
	return time.FixedZone("SAST", 2*60*60)
}

func mustDay(t *testing.T, date string, stages ...[]string) DaySchedule {
	t.Helper()

	day, err := ParseDay(date, "", stages)
	require.NoError(t, err)

	return day
}

// TestNextOutageStart_StageZero predicts nothing without load-shedding.
func TestNextOutageStart_StageZero(t *testing.T) {
	t.Parallel()

	loc := sast()
	days := []DaySchedule{mustDay(t, "2024-03-05", []string{"06:00-08:30"})}

	_, ok := NextOutageStart(PredictionInput{
		Now:      time.Date(2024, time.March, 5, 5, 0, 0, 0, loc),
		Location: loc,
		Days:     days,
	})
	require.False(t, ok)

	// An event whose note carried no stage overrides the stage feed.
	_, ok = NextOutageStart(PredictionInput{
		Now:      time.Date(2024, time.March, 5, 5, 0, 0, 0, loc),
		Location: loc,
		Days:     days,
		Stage:    1,
		Event:    &Event{Stage: 0},
	})
	require.False(t, ok)
}

// TestNextOutageStart_StageFeed picks today's next window from the current stage.
func TestNextOutageStart_StageFeed(t *testing.T) {
	t.Parallel()

	loc := sast()
	days := []DaySchedule{mustDay(t, "2024-03-05",
		[]string{"04:00-06:30"},
		[]string{"06:00-08:30", "16:00-18:30"},
	)}

	at, ok := NextOutageStart(PredictionInput{
		Now:      time.Date(2024, time.March, 5, 5, 0, 0, 0, loc),
		Location: loc,
		Days:     days,
		Stage:    2,
	})
	require.True(t, ok)
	require.Equal(t, time.Date(2024, time.March, 5, 6, 0, 0, 0, loc), at)

	at, ok = NextOutageStart(PredictionInput{
		Now:      time.Date(2024, time.March, 5, 9, 0, 0, 0, loc),
		Location: loc,
		Days:     days,
		Stage:    2,
	})
	require.True(t, ok)
	require.Equal(t, time.Date(2024, time.March, 5, 16, 0, 0, 0, loc), at)
}

// TestNextOutageStart_StrictlyAfter never selects a window starting exactly now.
func TestNextOutageStart_StrictlyAfter(t *testing.T) {
	t.Parallel()

	loc := sast()
	days := []DaySchedule{mustDay(t, "2024-03-05", []string{"06:00-08:30", "16:00-18:30"})}

	at, ok := NextOutageStart(PredictionInput{
		Now:      time.Date(2024, time.March, 5, 6, 0, 0, 0, loc),
		Location: loc,
		Days:     days,
		Stage:    1,
	})
	require.True(t, ok)
	require.Equal(t, time.Date(2024, time.March, 5, 16, 0, 0, 0, loc), at)
}

// TestNextOutageStart_FallbackToFirstRange wraps to the first window of the same day.
func TestNextOutageStart_FallbackToFirstRange(t *testing.T) {
	t.Parallel()

	loc := sast()
	days := []DaySchedule{mustDay(t, "2024-03-05", []string{"06:00-08:30", "16:00-18:30"})}
	now := time.Date(2024, time.March, 5, 20, 0, 0, 0, loc)

	// Without an active event the fallback is returned as is.
	at, ok := NextOutageStart(PredictionInput{Now: now, Location: loc, Days: days, Stage: 1})
	require.True(t, ok)
	require.Equal(t, time.Date(2024, time.March, 5, 6, 0, 0, 0, loc), at)
	require.False(t, at.After(now))

	// During an active event the same fallback is rejected.
	event := &Event{
		Stage: 1,
		Start: time.Date(2024, time.March, 5, 19, 0, 0, 0, loc),
		End:   time.Date(2024, time.March, 5, 23, 0, 0, 0, loc),
	}
	_, ok = NextOutageStart(PredictionInput{Now: now, Location: loc, Days: days, Event: event})
	require.False(t, ok)
}

// TestNextOutageStart_ScenarioB matches the documented stage 2 morning scenario.
func TestNextOutageStart_ScenarioB(t *testing.T) {
	t.Parallel()

	loc := sast()
	days := []DaySchedule{mustDay(t, "2024-03-05",
		[]string{"04:00-06:30"},
		[]string{"06:00-08:30", "16:00-18:30"},
	)}

	at, ok := NextOutageStart(PredictionInput{
		Now:      time.Date(2024, time.March, 5, 5, 0, 0, 0, loc),
		Location: loc,
		Days:     days,
		Stage:    2,
	})
	require.True(t, ok)
	require.Equal(t, time.Date(2024, time.March, 5, 6, 0, 0, 0, loc), at)
}

// TestNextOutageStart_ScenarioC covers an active event spanning midnight.
func TestNextOutageStart_ScenarioC(t *testing.T) {
	t.Parallel()

	loc := sast()
	event := &Event{
		Stage: 3,
		Start: time.Date(2024, time.March, 4, 22, 0, 0, 0, loc),
		End:   time.Date(2024, time.March, 5, 1, 0, 0, 0, loc),
	}
	now := time.Date(2024, time.March, 5, 0, 30, 0, 0, loc)
	stages := [][]string{{}, {}, {"00:00-02:00", "12:00-14:00"}}

	days := []DaySchedule{
		mustDay(t, "2024-03-04", []string{}, []string{}, []string{"22:00-00:30"}),
		mustDay(t, "2024-03-05", stages...),
	}

	// Today's schedule is used even though the event started yesterday.
	at, ok := NextOutageStart(PredictionInput{Now: now, Location: loc, Days: days, Event: event})
	require.True(t, ok)
	require.Equal(t, time.Date(2024, time.March, 5, 12, 0, 0, 0, loc), at)

	// With only the window already in progress, the fallback resolves to before now and is rejected.
	days[1] = mustDay(t, "2024-03-05", []string{}, []string{}, []string{"00:00-02:00"})
	_, ok = NextOutageStart(PredictionInput{Now: now, Location: loc, Days: days, Event: event})
	require.False(t, ok)
}

// TestNextOutageStart_UpcomingEventUsesEventDate reads the schedule of the day the event starts on.
func TestNextOutageStart_UpcomingEventUsesEventDate(t *testing.T) {
	t.Parallel()

	loc := sast()
	event := &Event{
		Stage: 1,
		Start: time.Date(2024, time.March, 6, 6, 0, 0, 0, loc),
		End:   time.Date(2024, time.March, 6, 8, 30, 0, 0, loc),
	}
	days := []DaySchedule{
		mustDay(t, "2024-03-05", []string{"20:00-22:30"}),
		mustDay(t, "2024-03-06", []string{"06:00-08:30"}),
	}
	now := time.Date(2024, time.March, 5, 21, 0, 0, 0, loc)

	// Tomorrow's morning window is picked, not tonight's.
	at, ok := NextOutageStart(PredictionInput{Now: now, Location: loc, Days: days, Event: event})
	require.True(t, ok)
	require.Equal(t, time.Date(2024, time.March, 6, 6, 0, 0, 0, loc), at)
}

// TestNextOutageStart_MissingData returns none for absent days and stages.
func TestNextOutageStart_MissingData(t *testing.T) {
	t.Parallel()

	loc := sast()
	now := time.Date(2024, time.March, 5, 5, 0, 0, 0, loc)

	_, ok := NextOutageStart(PredictionInput{Now: now, Location: loc, Stage: 2})
	require.False(t, ok)

	days := []DaySchedule{mustDay(t, "2024-03-05", []string{"06:00-08:30"})}
	_, ok = NextOutageStart(PredictionInput{Now: now, Location: loc, Days: days, Stage: 3})
	require.False(t, ok)

	malformed, err := ParseDay("2024-03-05", "", [][]string{{"bad"}})
	require.Error(t, err)

	_, ok = NextOutageStart(PredictionInput{Now: now, Location: loc, Days: []DaySchedule{malformed}, Stage: 1})
	require.False(t, ok)
}

// TestNextOutageStart_ConvertsToAreaZone resolves the calendar date in the area zone, not Now's zone.
func TestNextOutageStart_ConvertsToAreaZone(t *testing.T) {
	t.Parallel()

	loc := sast()
	days := []DaySchedule{mustDay(t, "2024-03-06", []string{"06:00-08:30"})}

	// 23:00 UTC on the 5th is 01:00 on the 6th in the area.
	now := time.Date(2024, time.March, 5, 23, 0, 0, 0, time.UTC)

	at, ok := NextOutageStart(PredictionInput{Now: now, Location: loc, Days: days, Stage: 1})
	require.True(t, ok)
	require.Equal(t, time.Date(2024, time.March, 6, 4, 0, 0, 0, time.UTC), at.UTC())
}

// TestNextOutageStart_EarliestAfterNow checks chronological schedules yield the earliest later window.
func TestNextOutageStart_EarliestAfterNow(t *testing.T) {
	t.Parallel()

	loc := sast()
	days := []DaySchedule{mustDay(t, "2024-03-05",
		[]string{"00:00-02:30", "08:00-10:30", "16:00-18:30"},
	)}

	for hour := range 24 {
		now := time.Date(2024, time.March, 5, hour, 15, 0, 0, loc)

		at, ok := NextOutageStart(PredictionInput{Now: now, Location: loc, Days: days, Stage: 1})
		require.True(t, ok)

		switch {
		case hour < 8:
			require.Equal(t, 8, at.Hour())
		case hour < 16:
			require.Equal(t, 16, at.Hour())
		default:
			require.Equal(t, 0, at.Hour())
		}
	}
}
