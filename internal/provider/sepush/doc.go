// Package sepush is a client for the EskomSePush business API 2.0.
//
// It fetches the load-shedding schedule and announced events of an area,
// the national stage and the remaining API allowance, and converts them
// into the outage model.
package sepush
