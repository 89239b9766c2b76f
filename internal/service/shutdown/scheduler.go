package shutdown

import (
	"context"
	"sync"
	"time"

	"github.com/oshokin/loadshed-guard/internal/domain/outage"
	"github.com/oshokin/loadshed-guard/internal/logger"
)

// DefaultCommandTimeout bounds the switch-off command when none is configured.
const DefaultCommandTimeout = 10 * time.Second

// Action is what a Reconcile call did to the pending timer.
type Action string

const (
	// ActionNone means no timer was pending and none was armed.
	ActionNone Action = "none"
	// ActionArmed means a new timer was armed, replacing any previous one.
	ActionArmed Action = "armed"
	// ActionKept means the pending timer already fires at the predicted moment.
	ActionKept Action = "kept"
	// ActionCancelled means the pending timer was cancelled and nothing replaced it.
	ActionCancelled Action = "cancelled"
)

// Switcher powers the device off.
type Switcher interface {
	SwitchOff(ctx context.Context) error
}

// Recorder persists fired shutdowns.
type Recorder interface {
	Save(ctx context.Context, record *outage.Shutdown) error
}

// Options configures a Scheduler.
type Options struct {
	// DeviceID identifies the device in logs and records.
	DeviceID string
	// Switcher sends the switch-off command.
	Switcher Switcher
	// Timers arms timers; nil means WallTimers.
	Timers Timers
	// Recorder saves fired shutdowns; optional.
	Recorder Recorder
	// Actor is stamped on records; optional.
	Actor *outage.Actor
	// CommandTimeout bounds the switch-off command.
	CommandTimeout time.Duration
	// DryRun is stamped on records.
	DryRun bool
	// Last seeds the last fired shutdown, e.g. from disk; optional.
	Last *outage.Shutdown
	// OnFire is called after every fired timer; optional.
	OnFire func(record *outage.Shutdown)
}

// pending is the single armed timer.
type pending struct {
	fireAt time.Time
	timer  Timer
	gen    uint64
}

// Scheduler owns at most one pending switch-off timer for one device.
type Scheduler struct {
	deviceID       string
	switcher       Switcher
	timers         Timers
	recorder       Recorder
	actor          *outage.Actor
	commandTimeout time.Duration
	dryRun         bool
	onFire         func(*outage.Shutdown)
	now            func() time.Time

	// mu protects the fields below.
	mu sync.Mutex
	// pending is nil when no timer is armed.
	pending *pending
	// gen identifies the most recently armed timer.
	gen uint64
	// closed stops arming and firing.
	closed bool
	// last is the most recent fired shutdown.
	last *outage.Shutdown
	// inflight tracks running switch-off commands so Close can wait for them.
	inflight sync.WaitGroup
}

// New creates a Scheduler.
func New(opts Options) *Scheduler {
	s := &Scheduler{
		deviceID:       opts.DeviceID,
		switcher:       opts.Switcher,
		timers:         opts.Timers,
		recorder:       opts.Recorder,
		actor:          opts.Actor.Clone(),
		commandTimeout: opts.CommandTimeout,
		dryRun:         opts.DryRun,
		onFire:         opts.OnFire,
		now:            time.Now,
		last:           opts.Last.Clone(),
	}

	if s.timers == nil {
		s.timers = WallTimers{}
	}

	if s.commandTimeout <= 0 {
		s.commandTimeout = DefaultCommandTimeout
	}

	return s
}

// Reconcile brings the pending timer in line with the latest prediction.
// A zero predicted time means no outage is expected. A predicted time at or
// before now is not actionable.
func (s *Scheduler) Reconcile(
	ctx context.Context,
	deviceOn bool,
	predicted time.Time,
	leadTime time.Duration,
	now time.Time,
) Action {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ActionNone
	}

	switch {
	case !deviceOn:
		return s.cancelLocked(ctx, "device is off")
	case predicted.IsZero():
		return s.cancelLocked(ctx, "no outage predicted")
	case !predicted.After(now):
		return s.cancelLocked(ctx, "predicted outage is not in the future")
	case predicted.Sub(now) > leadTime:
		return s.cancelLocked(ctx, "predicted outage is beyond the lead time")
	}

	if s.pending != nil && s.pending.fireAt.Equal(predicted) {
		return ActionKept
	}

	s.cancelLocked(ctx, "predicted outage moved")

	s.gen++
	gen := s.gen
	fireCtx := context.WithoutCancel(ctx)

	s.pending = &pending{
		fireAt: predicted,
		gen:    gen,
		timer: s.timers.Arm(predicted, func() {
			s.fire(fireCtx, gen, predicted)
		}),
	}

	logger.InfoKV(ctx, "Shutdown armed",
		"device_id", s.deviceID,
		"fire_at", predicted,
		"in", predicted.Sub(now).Round(time.Second).String(),
	)

	return ActionArmed
}

// Pending returns the moment the armed timer fires.
func (s *Scheduler) Pending() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return time.Time{}, false
	}

	return s.pending.fireAt, true
}

// Last returns the most recent fired shutdown, or nil.
func (s *Scheduler) Last() *outage.Shutdown {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.last.Clone()
}

// Close cancels the pending timer, stops further arming and waits for a
// command that is already being sent.
func (s *Scheduler) Close(ctx context.Context) {
	s.mu.Lock()
	s.closed = true
	s.cancelLocked(ctx, "scheduler closed")
	s.mu.Unlock()

	s.inflight.Wait()
}

func (s *Scheduler) cancelLocked(ctx context.Context, reason string) Action {
	if s.pending == nil {
		return ActionNone
	}

	s.pending.timer.Cancel()

	logger.InfoKV(ctx, "Shutdown cancelled",
		"device_id", s.deviceID,
		"fire_at", s.pending.fireAt,
		"reason", reason,
	)

	s.pending = nil

	return ActionCancelled
}

func (s *Scheduler) fire(ctx context.Context, gen uint64, scheduledFor time.Time) {
	s.mu.Lock()

	if s.closed || s.pending == nil || s.pending.gen != gen {
		s.mu.Unlock()

		return
	}

	s.pending = nil
	s.inflight.Add(1)
	s.mu.Unlock()

	defer s.inflight.Done()

	record := &outage.Shutdown{
		DeviceID:     s.deviceID,
		ScheduledFor: scheduledFor,
		FiredAt:      s.now(),
		DryRun:       s.dryRun,
		Actor:        s.actor.Clone(),
	}

	cmdCtx, cancel := context.WithTimeout(ctx, s.commandTimeout)
	defer cancel()

	if err := s.switcher.SwitchOff(cmdCtx); err != nil {
		record.Error = err.Error()

		logger.ErrorKV(ctx, "Switch-off failed", "device_id", s.deviceID, "scheduled_for", scheduledFor, "error", err)
	} else {
		logger.InfoKV(ctx, "Device switched off", "device_id", s.deviceID, "scheduled_for", scheduledFor)
	}

	s.mu.Lock()
	s.last = record.Clone()
	s.mu.Unlock()

	if s.recorder != nil {
		if err := s.recorder.Save(ctx, record); err != nil {
			logger.ErrorKV(ctx, "Failed to persist shutdown record", "error", err)
		}
	}

	if s.onFire != nil {
		s.onFire(record)
	}
}
