// Package power adapts the Tuya cloud to the one appliance the guard protects:
// it answers "is it on" and sends "switch off".
package power
