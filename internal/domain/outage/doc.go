// Package outage contains the load-shedding schedule model and the outage predictor.
//
// A DaySchedule lists, for one calendar date, the time ranges of every stage.
// An Event is an outage window announced for the area. NextOutageStart combines
// both with the current stage to find the moment power will be cut next.
// Shutdown records a fired switch-off. Nothing here performs I/O or reads a clock.
package outage
