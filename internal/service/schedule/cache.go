package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oshokin/loadshed-guard/internal/domain/outage"
	"github.com/oshokin/loadshed-guard/internal/logger"
)

// ErrNoStageProvider is returned by RefreshStage when no stage feed is configured.
var ErrNoStageProvider = errors.New("stage provider is not configured")

// ScheduleProvider fetches an area's schedule and events.
type ScheduleProvider interface {
	Area(ctx context.Context, areaID string) (outage.Area, error)
}

// StageProvider fetches the current stage.
type StageProvider interface {
	Stage(ctx context.Context) (int, error)
}

// Snapshot is a consistent, caller-owned view of the cache.
type Snapshot struct {
	// Area is the last fetched schedule and events.
	Area outage.Area
	// Stage is the last fetched stage; valid when HasStage is set.
	Stage    int
	HasStage bool
	// ScheduleUpdated is when Area was last replaced; zero if never.
	ScheduleUpdated time.Time
	// StageUpdated is when Stage was last replaced; zero if never.
	StageUpdated time.Time
}

// Ready reports whether a schedule has been fetched at least once.
func (s Snapshot) Ready() bool {
	return !s.ScheduleUpdated.IsZero()
}

// Cache holds the most recently fetched schedule and stage.
type Cache struct {
	// areaID is the area the schedule is fetched for.
	areaID string
	// schedules fetches the area schedule.
	schedules ScheduleProvider
	// stages fetches the current stage; nil means events are the only stage source.
	stages StageProvider
	// now stamps refresh times.
	now func() time.Time

	// mu protects the cached values.
	mu sync.RWMutex
	// state is replaced wholesale on every successful refresh.
	state Snapshot
}

// New creates an empty cache. stages may be nil.
func New(areaID string, schedules ScheduleProvider, stages StageProvider) *Cache {
	return &Cache{
		areaID:    areaID,
		schedules: schedules,
		stages:    stages,
		now:       time.Now,
	}
}

// AreaID returns the area the cache is bound to.
func (c *Cache) AreaID() string {
	return c.areaID
}

// HasStageProvider reports whether a stage feed is configured.
func (c *Cache) HasStageProvider() bool {
	return c.stages != nil
}

// RefreshSchedule fetches the area schedule and replaces the cached one.
// On failure the previous schedule is kept.
func (c *Cache) RefreshSchedule(ctx context.Context) error {
	area, err := c.schedules.Area(ctx, c.areaID)
	if err != nil {
		return fmt.Errorf("refresh schedule: %w", err)
	}

	c.mu.Lock()
	c.state.Area = area.Clone()
	c.state.ScheduleUpdated = c.now()
	c.mu.Unlock()

	logger.InfoKV(ctx, "Schedule refreshed",
		"area", area.Name,
		"days", len(area.Days),
		"events", len(area.Events),
	)

	return nil
}

// RefreshStage fetches the current stage and replaces the cached one.
// On failure the previous stage is kept.
func (c *Cache) RefreshStage(ctx context.Context) error {
	if c.stages == nil {
		return ErrNoStageProvider
	}

	stage, err := c.stages.Stage(ctx)
	if err != nil {
		return fmt.Errorf("refresh stage: %w", err)
	}

	c.mu.Lock()
	previous, had := c.state.Stage, c.state.HasStage
	c.state.Stage = stage
	c.state.HasStage = true
	c.state.StageUpdated = c.now()
	c.mu.Unlock()

	if !had || previous != stage {
		logger.InfoKV(ctx, "Stage changed", "stage", stage, "previous", previous)
	}

	return nil
}

// Snapshot returns a deep copy of the cached state.
func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := c.state
	snapshot.Area = c.state.Area.Clone()

	return snapshot
}
