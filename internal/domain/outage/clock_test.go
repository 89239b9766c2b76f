package outage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestParseClock covers valid and malformed time-of-day strings.
func TestParseClock(t *testing.T) {
	t.Parallel()

	c, err := ParseClock("06:30")
	require.NoError(t, err)
	require.Equal(t, Clock{Hour: 6, Minute: 30}, c)
	require.Equal(t, "06:30", c.String())

	c, err = ParseClock("0:00")
	require.NoError(t, err)
	require.Equal(t, Clock{}, c)

	for _, bad := range []string{"", "6", "24:00", "12:60", "12:5", "ab:cd", "-1:00"} {
		_, err := ParseClock(bad)
		require.ErrorIs(t, err, ErrInvalidClock, bad)
	}
}

// TestParseRange checks ranges, including ones that cross midnight.
func TestParseRange(t *testing.T) {
	t.Parallel()

	r, err := ParseRange("16:00-18:30")
	require.NoError(t, err)
	require.Equal(t, Clock{Hour: 16}, r.Start)
	require.Equal(t, Clock{Hour: 18, Minute: 30}, r.End)
	require.False(t, r.Overnight())
	require.Equal(t, "16:00-18:30", r.String())

	r, err = ParseRange("22:00-00:30")
	require.NoError(t, err)
	require.True(t, r.Overnight())

	_, err = ParseRange("16:00")
	require.ErrorIs(t, err, ErrInvalidRange)

	_, err = ParseRange("16:00-25:00")
	require.ErrorIs(t, err, ErrInvalidRange)
	require.ErrorIs(t, err, ErrInvalidClock)
}

// TestClockOn resolves a clock on a date in the area zone.
func TestClockOn(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("SAST", 2*60*60)
	at := Clock{Hour: 6}.On(Date{Year: 2024, Month: time.March, Day: 5}, loc)

	require.Equal(t, time.Date(2024, time.March, 5, 4, 0, 0, 0, time.UTC), at.UTC())
}
