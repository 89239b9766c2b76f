// Package telemetry defines the guard's Prometheus metrics and the HTTP
// middleware that measures the status API.
package telemetry
