package outage

import "time"

// Actor identifies the host and user the guard ran as.
type Actor struct {
	// Hostname is the machine name where the action was performed.
	Hostname string
	// Username is the system user running the guard.
	Username string
}

// Clone returns a deep copy of the actor.
func (a *Actor) Clone() *Actor {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}

// Shutdown records one fired switch-off.
type Shutdown struct {
	// DeviceID is the device the command was sent to.
	DeviceID string
	// ScheduledFor is the predicted outage start the timer was armed for.
	ScheduledFor time.Time
	// FiredAt is when the command was issued.
	FiredAt time.Time
	// Error is the command failure, empty on success.
	Error string
	// DryRun is set when the command was only logged.
	DryRun bool
	// Actor is who ran the guard.
	Actor *Actor
}

// Succeeded reports whether the device accepted the command.
func (s *Shutdown) Succeeded() bool {
	return s.Error == ""
}

// Clone returns a copy of the record to avoid leaking internal references.
func (s *Shutdown) Clone() *Shutdown {
	if s == nil {
		return nil
	}

	return &Shutdown{
		DeviceID:     s.DeviceID,
		ScheduledFor: s.ScheduledFor,
		FiredAt:      s.FiredAt,
		Error:        s.Error,
		DryRun:       s.DryRun,
		Actor:        s.Actor.Clone(),
	}
}
