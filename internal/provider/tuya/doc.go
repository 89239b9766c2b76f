// Package tuya is a minimal Tuya Cloud OpenAPI client.
//
// It covers what the guard needs: obtaining an access token, reading a
// device's data points and sending commands. Every request is signed with
// HMAC-SHA256 and passes through a rate limiter. The access token lives in
// memory only and is renewed when it expires or the API rejects it.
package tuya
