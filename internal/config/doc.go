// Package config loads, validates, and saves the guard's YAML settings.
//
// Values may reference environment variables as ${VAR} or ${VAR:default},
// which keeps API tokens out of the file. Missing optional fields are filled
// with the Default* constants before validation.
package config
