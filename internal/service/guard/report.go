package guard

import (
	"context"

	"github.com/oshokin/loadshed-guard/internal/api/http/status"
	"github.com/oshokin/loadshed-guard/internal/version"
)

// Report renders the guard state for the status API.
func (g *Guard) Report(_ context.Context) status.Report {
	snapshot := g.cache.Snapshot()

	g.mu.RLock()
	last := g.last
	g.mu.RUnlock()

	prediction := last.predicted
	if !last.known {
		prediction = predict(snapshot, g.now(), g.location)
	}

	report := status.Report{
		Version: version.Current(),
		Area: status.Area{
			ID:     g.areaID,
			Name:   snapshot.Area.Name,
			Region: snapshot.Area.Region,
			Source: snapshot.Area.Source,
		},
		Stage:           prediction.Stage,
		StageSource:     prediction.StageSource,
		LeadTime:        g.leadTime.String(),
		ScheduleUpdated: status.TimePtr(snapshot.ScheduleUpdated),
		StageUpdated:    status.TimePtr(snapshot.StageUpdated),
		DryRun:          g.dryRun,
		Device: status.Device{
			ID:        g.deviceID,
			CheckedAt: status.TimePtr(last.at),
			Error:     last.err,
		},
	}

	if prediction.OK {
		report.NextOutage = status.TimePtr(prediction.At)
	}

	if prediction.Event != nil {
		report.Event = &status.Event{
			Stage: prediction.Event.Stage,
			Start: prediction.Event.Start,
			End:   prediction.Event.End,
			Note:  prediction.Event.Note,
		}
	}

	if last.known {
		on := last.on
		report.Device.On = &on
	}

	if pending, ok := g.scheduler.Pending(); ok {
		report.PendingShutdown = status.TimePtr(pending)
	}

	if record := g.scheduler.Last(); record != nil {
		report.LastShutdown = &status.Shutdown{
			ScheduledFor: record.ScheduledFor,
			FiredAt:      record.FiredAt,
			Error:        record.Error,
			DryRun:       record.DryRun,
		}

		if record.Actor != nil {
			report.LastShutdown.Host = record.Actor.Hostname
		}
	}

	return report
}
