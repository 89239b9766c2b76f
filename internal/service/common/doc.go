// Package common holds helpers shared by several services.
//
// It detects the current system actor (hostname/username) for the shutdown
// record and refuses to start a second guard on the same host.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
