package outage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestParseDay builds a day and keeps stage numbering when one stage is malformed.
func TestParseDay(t *testing.T) {
	t.Parallel()

	day, err := ParseDay("2024-03-05", "Tuesday", [][]string{
		{"06:00-08:30"},
		{"06:00-08:30", "16:00-18:30"},
		{"06:00-oops"},
		{},
	})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidRange)

	require.Equal(t, Date{Year: 2024, Month: time.March, Day: 5}, day.Date)
	require.Equal(t, "Tuesday", day.Name)
	require.Len(t, day.Stages, 4)
	require.Len(t, day.Ranges(2), 2)
	require.Empty(t, day.Ranges(3))
	require.Empty(t, day.Ranges(4))
	require.Nil(t, day.Ranges(0))
	require.Nil(t, day.Ranges(5))
}

// TestParseDay_BadDate rejects the whole day.
func TestParseDay_BadDate(t *testing.T) {
	t.Parallel()

	_, err := ParseDay("05/03/2024", "", nil)
	require.ErrorIs(t, err, ErrInvalidDate)
}

// TestAreaClone verifies that cloned schedules do not share range slices.
func TestAreaClone(t *testing.T) {
	t.Parallel()

	day, err := ParseDay("2024-03-05", "", [][]string{{"06:00-08:30"}})
	require.NoError(t, err)

	a := Area{Name: "Fourways", Days: []DaySchedule{day}, Events: []Event{{Stage: 1}}}
	c := a.Clone()
	require.Equal(t, a, c)

	c.Days[0].Stages[0][0] = TimeRange{}
	c.Events[0].Stage = 4

	require.Equal(t, Clock{Hour: 6}, a.Days[0].Stages[0][0].Start)
	require.Equal(t, 1, a.Events[0].Stage)
}

// TestFindDay looks a day up by calendar date.
func TestFindDay(t *testing.T) {
	t.Parallel()

	d1, _ := ParseDay("2024-03-05", "", nil)
	d2, _ := ParseDay("2024-03-06", "", nil)

	got, ok := FindDay([]DaySchedule{d1, d2}, Date{Year: 2024, Month: time.March, Day: 6})
	require.True(t, ok)
	require.Equal(t, d2, got)

	_, ok = FindDay([]DaySchedule{d1}, Date{Year: 2024, Month: time.March, Day: 7})
	require.False(t, ok)
}
