// Package state persists the last fired shutdown.
//
// The FileRepository stores the record as protobuf JSON (a pb.ShutdownRecord)
// on disk so that the status API can report the last switch-off across
// restarts. It exposes a Repository interface the shutdown scheduler saves through.
package state
