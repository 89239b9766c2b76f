// Package guard is the control loop of the load-shedding guard.
//
// Run wires the providers, the schedule cache and the shutdown scheduler
// together and drives three independent cadences: schedule refresh, stage
// refresh and device check. Each device check reads the device state, predicts
// the next outage from a cache snapshot and reconciles the pending switch-off.
// Predict and Allowance are one-shot helpers for the CLI.
package guard
