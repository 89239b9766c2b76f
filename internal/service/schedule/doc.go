// Package schedule keeps the latest load-shedding schedule and stage in memory.
//
// Refreshes replace the cached values wholesale; a failed refresh keeps the
// previous values so the guard keeps predicting from stale data.
package schedule
