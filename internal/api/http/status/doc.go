// Package status serves the guard's HTTP status API.
//
// Routes:
//   - GET /health: liveness, always 200.
//   - GET /ready: 200 once a schedule has been fetched, 503 before.
//   - GET /api/status: the latest prediction and device state as JSON.
//   - GET /metrics: Prometheus metrics.
package status
