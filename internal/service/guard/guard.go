package guard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oshokin/loadshed-guard/internal/domain/outage"
	"github.com/oshokin/loadshed-guard/internal/logger"
	"github.com/oshokin/loadshed-guard/internal/service/schedule"
	"github.com/oshokin/loadshed-guard/internal/service/shutdown"
	"github.com/oshokin/loadshed-guard/internal/telemetry"
)

// Stage sources reported with a prediction.
const (
	StageSourceEvent  = "event"
	StageSourceStatus = "status"
	StageSourceNone   = "none"
)

// Device reports whether the protected appliance is powered.
type Device interface {
	IsOn(ctx context.Context) (bool, error)
}

// Prediction is the outcome of one prediction.
type Prediction struct {
	// At is the predicted outage start; valid when OK is set.
	At time.Time
	OK bool
	// Stage is the stage the prediction used.
	Stage int
	// StageSource says where Stage came from.
	StageSource string
	// Event is the announced outage used, if any.
	Event *outage.Event
	// Area is the name of the area.
	Area string
}

// deviceCheck is the outcome of the last device check.
type deviceCheck struct {
	on        bool
	known     bool
	at        time.Time
	err       string
	predicted Prediction
}

// Params are the collaborators of a Guard.
type Params struct {
	// AreaID identifies the area in reports.
	AreaID string
	// DeviceID identifies the device in reports and logs.
	DeviceID string
	// Location is the area's time zone.
	Location *time.Location
	// LeadTime is how long before the outage the device is switched off.
	LeadTime time.Duration
	// DryRun is reported in the status API.
	DryRun bool
	// Cache holds the schedule and stage.
	Cache *schedule.Cache
	// Device reads the device state.
	Device Device
	// Scheduler owns the switch-off timer.
	Scheduler *shutdown.Scheduler
	// Metrics receives gauges and counters; optional.
	Metrics *telemetry.Metrics
}

// Guard ties the cache, the predictor and the scheduler together.
type Guard struct {
	areaID    string
	deviceID  string
	location  *time.Location
	leadTime  time.Duration
	dryRun    bool
	cache     *schedule.Cache
	device    Device
	scheduler *shutdown.Scheduler
	metrics   *telemetry.Metrics
	now       func() time.Time

	// mu protects last.
	mu sync.RWMutex
	// last is the outcome of the most recent device check.
	last deviceCheck
}

// New creates a Guard.
func New(p Params) *Guard {
	loc := p.Location
	if loc == nil {
		loc = time.Local
	}

	return &Guard{
		areaID:    p.AreaID,
		deviceID:  p.DeviceID,
		location:  loc,
		leadTime:  p.LeadTime,
		dryRun:    p.DryRun,
		cache:     p.Cache,
		device:    p.Device,
		scheduler: p.Scheduler,
		metrics:   p.Metrics,
		now:       time.Now,
	}
}

// RefreshSchedule refreshes the cached schedule. Failures keep the stale copy.
func (g *Guard) RefreshSchedule(ctx context.Context) error {
	if err := g.cache.RefreshSchedule(ctx); err != nil {
		g.countFailure(telemetry.SourceSchedule)

		return err
	}

	if g.metrics != nil {
		telemetry.SetTimestamp(g.metrics.ScheduleUpdated, g.cache.Snapshot().ScheduleUpdated)
	}

	return nil
}

// RefreshStage refreshes the cached stage. It does nothing without a stage feed.
func (g *Guard) RefreshStage(ctx context.Context) error {
	if !g.cache.HasStageProvider() {
		return nil
	}

	if err := g.cache.RefreshStage(ctx); err != nil {
		g.countFailure(telemetry.SourceStage)

		return err
	}

	return nil
}

// Predict computes the next outage from a consistent cache snapshot.
func (g *Guard) Predict(now time.Time) Prediction {
	return predict(g.cache.Snapshot(), now, g.location)
}

// CheckDevice reads the device state, predicts and reconciles the pending switch-off.
// When the device state cannot be read the pending timer is left untouched.
func (g *Guard) CheckDevice(ctx context.Context) (shutdown.Action, error) {
	ctx = logger.WithKV(ctx, "device_id", g.deviceID)

	on, err := g.device.IsOn(ctx)
	now := g.now()

	if err != nil {
		g.countFailure(telemetry.SourceDevice)

		g.mu.Lock()
		g.last.at = now
		g.last.err = err.Error()
		g.mu.Unlock()

		return shutdown.ActionNone, fmt.Errorf("read device state: %w", err)
	}

	prediction := g.Predict(now)

	var predicted time.Time
	if prediction.OK {
		predicted = prediction.At
	}

	action := g.scheduler.Reconcile(ctx, on, predicted, g.leadTime, now)

	logger.DebugKV(ctx, "Device checked",
		"on", on,
		"stage", prediction.Stage,
		"stage_source", prediction.StageSource,
		"next_outage", predicted,
		"action", string(action),
	)

	g.mu.Lock()
	g.last = deviceCheck{on: on, known: true, at: now, predicted: prediction}
	g.mu.Unlock()

	g.observe(on, prediction, action)

	return action, nil
}

// Ready reports whether a schedule has been fetched.
func (g *Guard) Ready() bool {
	return g.cache.Snapshot().Ready()
}

func (g *Guard) observe(on bool, prediction Prediction, action shutdown.Action) {
	if g.metrics == nil {
		return
	}

	g.metrics.Stage.Set(float64(prediction.Stage))
	telemetry.SetBool(g.metrics.DeviceOn, on)

	if prediction.OK {
		telemetry.SetTimestamp(g.metrics.NextOutage, prediction.At)
	} else {
		telemetry.SetTimestamp(g.metrics.NextOutage, time.Time{})
	}

	pending, _ := g.scheduler.Pending()
	telemetry.SetTimestamp(g.metrics.PendingShutdown, pending)

	g.metrics.ReconcileActions.WithLabelValues(string(action)).Inc()
}

func (g *Guard) countFailure(source string) {
	if g.metrics != nil {
		g.metrics.RefreshFailures.WithLabelValues(source).Inc()
	}
}

// predict builds the prediction input from a snapshot: the first current or
// upcoming event wins over the stage feed.
func predict(snapshot schedule.Snapshot, now time.Time, loc *time.Location) Prediction {
	in := outage.PredictionInput{
		Now:      now,
		Location: loc,
		Days:     snapshot.Area.Days,
	}

	result := Prediction{StageSource: StageSourceNone, Area: snapshot.Area.Name}

	if event, ok := outage.FirstEvent(snapshot.Area.Events, now); ok {
		in.Event = &event
		result.Event = &event
		result.StageSource = StageSourceEvent
	} else if snapshot.HasStage {
		in.Stage = snapshot.Stage
		result.StageSource = StageSourceStatus
	}

	result.Stage = in.EffectiveStage()
	result.At, result.OK = outage.NextOutageStart(in)

	return result
}
