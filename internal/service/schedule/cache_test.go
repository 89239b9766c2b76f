package schedule

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/loadshed-guard/internal/domain/outage"
)

type fakeSchedules struct {
	mu     sync.Mutex
	area   outage.Area
	err    error
	areaID string
}

func (f *fakeSchedules) Area(_ context.Context, areaID string) (outage.Area, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.areaID = areaID

	return f.area, f.err
}

type fakeStages struct {
	stage int
	err   error
}

func (f *fakeStages) Stage(context.Context) (int, error) {
	return f.stage, f.err
}

func testArea(t *testing.T, name string) outage.Area {
	t.Helper()

	day, err := outage.ParseDay("2024-03-05", "Tuesday", [][]string{{"06:00-08:30"}})
	require.NoError(t, err)

	return outage.Area{Name: name, Days: []outage.DaySchedule{day}}
}

// TestCache_EmptyUntilRefreshed reports nothing before the first refresh.
func TestCache_EmptyUntilRefreshed(t *testing.T) {
	t.Parallel()

	c := New("area-1", new(fakeSchedules), nil)
	s := c.Snapshot()

	require.False(t, s.Ready())
	require.False(t, s.HasStage)
	require.Empty(t, s.Area.Days)
	require.False(t, c.HasStageProvider())
	require.ErrorIs(t, c.RefreshStage(context.Background()), ErrNoStageProvider)
}

// TestCache_RefreshSchedule replaces the schedule and keeps it when a later fetch fails.
func TestCache_RefreshSchedule(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 5, 5, 0, 0, 0, time.UTC)
	schedules := &fakeSchedules{area: testArea(t, "Fourways")}

	c := New("area-1", schedules, nil)
	c.now = func() time.Time { return now }

	require.NoError(t, c.RefreshSchedule(context.Background()))
	require.Equal(t, "area-1", schedules.areaID)

	s := c.Snapshot()
	require.True(t, s.Ready())
	require.Equal(t, "Fourways", s.Area.Name)
	require.Equal(t, now, s.ScheduleUpdated)

	schedules.err = errors.New("503")
	now = now.Add(time.Hour)

	require.Error(t, c.RefreshSchedule(context.Background()))

	s = c.Snapshot()
	require.Equal(t, "Fourways", s.Area.Name)
	require.Equal(t, now.Add(-time.Hour), s.ScheduleUpdated)

	schedules.err = nil
	schedules.area = testArea(t, "Sandton")

	require.NoError(t, c.RefreshSchedule(context.Background()))
	require.Equal(t, "Sandton", c.Snapshot().Area.Name)
}

// TestCache_RefreshStage stores the stage and keeps it on failure.
func TestCache_RefreshStage(t *testing.T) {
	t.Parallel()

	stages := &fakeStages{stage: 4}
	c := New("area-1", new(fakeSchedules), stages)

	require.NoError(t, c.RefreshStage(context.Background()))

	s := c.Snapshot()
	require.True(t, s.HasStage)
	require.Equal(t, 4, s.Stage)
	require.False(t, s.Ready())

	stages.err = errors.New("timeout")
	require.Error(t, c.RefreshStage(context.Background()))
	require.Equal(t, 4, c.Snapshot().Stage)
}

// TestCache_SnapshotIsolation ensures callers cannot mutate the cached schedule.
func TestCache_SnapshotIsolation(t *testing.T) {
	t.Parallel()

	c := New("area-1", &fakeSchedules{area: testArea(t, "Fourways")}, nil)
	require.NoError(t, c.RefreshSchedule(context.Background()))

	s := c.Snapshot()
	s.Area.Days[0].Stages[0][0] = outage.TimeRange{}

	require.Equal(t, 6, c.Snapshot().Area.Days[0].Stages[0][0].Start.Hour)
}

// TestCache_ConcurrentAccess exercises refreshes and reads together under the race detector.
func TestCache_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	c := New("area-1", &fakeSchedules{area: testArea(t, "Fourways")}, &fakeStages{stage: 2})

	var wg sync.WaitGroup

	for range 8 {
		wg.Go(func() {
			for range 50 {
				_ = c.RefreshSchedule(context.Background())
				_ = c.RefreshStage(context.Background())
				_ = c.Snapshot()
			}
		})
	}

	wg.Wait()

	s := c.Snapshot()
	require.True(t, s.Ready())
	require.Equal(t, 2, s.Stage)
}
