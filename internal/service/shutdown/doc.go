// Package shutdown turns a predicted outage start into at most one pending
// switch-off timer for the protected device.
//
// Reconcile is called on every device check. It arms, keeps or cancels the
// timer so that exactly one command fires at the predicted moment, and only
// while the device is on and the outage is within the lead time. A fired
// timer is never re-armed by itself: the next check decides again.
package shutdown
