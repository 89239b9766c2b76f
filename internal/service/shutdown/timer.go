package shutdown

import "time"

// Timer is an armed one-shot callback.
type Timer interface {
	// Cancel stops the timer. It reports false if the timer already fired.
	Cancel() bool
}

// Timers arms one-shot callbacks. Implementations must run fn on its own
// goroutine, never from inside Arm.
type Timers interface {
	Arm(at time.Time, fn func()) Timer
}

// WallTimers arms timers on the process clock.
type WallTimers struct{}

// Arm schedules fn to run at the given moment, or right away if it has passed.
func (WallTimers) Arm(at time.Time, fn func()) Timer {
	return wallTimer{timer: time.AfterFunc(time.Until(at), fn)}
}

type wallTimer struct {
	timer *time.Timer
}

func (t wallTimer) Cancel() bool {
	return t.timer.Stop()
}
