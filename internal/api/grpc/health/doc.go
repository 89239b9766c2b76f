// Package health serves the standard gRPC health service for the guard.
//
// The service named ServiceName is SERVING once the guard has a schedule to
// predict from and NOT_SERVING otherwise, so orchestrators and grpc-health-probe
// can tell a guard that is blind from one that is working.
package health
