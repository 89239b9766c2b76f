package status

import (
	"context"
	"time"

	"github.com/oshokin/loadshed-guard/internal/version"
)

// Reporter is what the server needs from the guard.
type Reporter interface {
	// Report returns the current guard state.
	Report(ctx context.Context) Report
	// Ready reports whether predictions can be made.
	Ready() bool
}

// Report is the body of GET /api/status.
type Report struct {
	Version         version.Info `json:"version"`
	Area            Area         `json:"area"`
	Stage           int          `json:"stage"`
	StageSource     string       `json:"stage_source"`
	Event           *Event       `json:"event,omitempty"`
	NextOutage      *time.Time   `json:"next_outage,omitempty"`
	PendingShutdown *time.Time   `json:"pending_shutdown,omitempty"`
	LeadTime        string       `json:"lead_time"`
	Device          Device       `json:"device"`
	LastShutdown    *Shutdown    `json:"last_shutdown,omitempty"`
	ScheduleUpdated *time.Time   `json:"schedule_updated,omitempty"`
	StageUpdated    *time.Time   `json:"stage_updated,omitempty"`
	DryRun          bool         `json:"dry_run"`
}

// Area describes the watched area.
type Area struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Region string `json:"region,omitempty"`
	Source string `json:"source,omitempty"`
}

// Event is the announced outage prediction is based on.
type Event struct {
	Stage int       `json:"stage"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Note  string    `json:"note"`
}

// Device is the protected appliance as of the last check.
type Device struct {
	ID        string     `json:"id"`
	On        *bool      `json:"on,omitempty"`
	CheckedAt *time.Time `json:"checked_at,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// Shutdown is the last fired switch-off.
type Shutdown struct {
	ScheduledFor time.Time `json:"scheduled_for"`
	FiredAt      time.Time `json:"fired_at"`
	Error        string    `json:"error,omitempty"`
	DryRun       bool      `json:"dry_run"`
	Host         string    `json:"host,omitempty"`
}

// TimePtr returns nil for the zero time.
func TimePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	return &t
}
