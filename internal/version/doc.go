// Package version exposes build metadata for the guard.
//
// Variables Version, Commit, and BuildTime are injected at build time via
// Go ldflags and default to sensible values for local builds. They appear in
// the version command, the status API and the User-Agent of API requests.
package version
