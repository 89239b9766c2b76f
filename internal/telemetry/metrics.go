package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "loadshed_guard"

// Refresh sources.
const (
	SourceSchedule = "schedule"
	SourceStage    = "stage"
	SourceDevice   = "device"
)

// Metrics holds every collector of the guard on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	Stage               prometheus.Gauge
	NextOutage          prometheus.Gauge
	PendingShutdown     prometheus.Gauge
	DeviceOn            prometheus.Gauge
	ScheduleUpdated     prometheus.Gauge
	RefreshFailures     *prometheus.CounterVec
	ShutdownCommands    *prometheus.CounterVec
	ReconcileActions    *prometheus.CounterVec
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Stage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage",
			Help:      "Load-shedding stage the last prediction was based on.",
		}),
		NextOutage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "next_outage_timestamp_seconds",
			Help:      "Predicted start of the next outage, 0 when none.",
		}),
		PendingShutdown: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_shutdown_timestamp_seconds",
			Help:      "Moment the armed switch-off fires, 0 when none.",
		}),
		DeviceOn: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "device_on",
			Help:      "1 when the protected device reported itself on at the last check.",
		}),
		ScheduleUpdated: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "schedule_updated_timestamp_seconds",
			Help:      "Last successful schedule refresh.",
		}),
		RefreshFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_failures_total",
			Help:      "Failed fetches by source.",
		}, []string{"source"}),
		ShutdownCommands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shutdown_commands_total",
			Help:      "Fired switch-off commands by result.",
		}, []string{"result"}),
		ReconcileActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_actions_total",
			Help:      "Device check outcomes by action.",
		}, []string{"action"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Status API requests by route and status code.",
		}, []string{"route", "code"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Status API latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Stage,
		m.NextOutage,
		m.PendingShutdown,
		m.DeviceOn,
		m.ScheduleUpdated,
		m.RefreshFailures,
		m.ShutdownCommands,
		m.ReconcileActions,
		m.HTTPRequests,
		m.HTTPRequestDuration,
	)

	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// SetTimestamp sets g to t in Unix seconds, or 0 for the zero time.
func SetTimestamp(g prometheus.Gauge, t time.Time) {
	if t.IsZero() {
		g.Set(0)

		return
	}

	g.Set(float64(t.UnixNano()) / float64(time.Second))
}

// SetBool sets g to 1 or 0.
func SetBool(g prometheus.Gauge, v bool) {
	if v {
		g.Set(1)

		return
	}

	g.Set(0)
}
