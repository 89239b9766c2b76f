package tuya

import (
	"encoding/json"
	"fmt"
)

// envelope wraps every Tuya API response.
type envelope struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
	Code    int             `json:"code"`
	Msg     string          `json:"msg"`
	T       int64           `json:"t"`
}

// tokenResult is the result of GET /v1.0/token.
type tokenResult struct {
	AccessToken  string `json:"access_token"`
	ExpireTime   int64  `json:"expire_time"`
	RefreshToken string `json:"refresh_token"`
	UID          string `json:"uid"`
}

// Status is one data point of a device.
type Status struct {
	Code  string `json:"code"`
	Value any    `json:"value"`
}

// Command sets one data point of a device.
type Command struct {
	Code  string `json:"code"`
	Value any    `json:"value"`
}

// commandsRequest is the body of POST /v1.0/devices/{id}/commands.
type commandsRequest struct {
	Commands []Command `json:"commands"`
}

// APIError is returned when the API answers with success=false.
type APIError struct {
	Code int
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tuya: code %d: %s", e.Code, e.Msg)
}

// TokenInvalid reports whether the error means the access token must be renewed.
func (e *APIError) TokenInvalid() bool {
	switch e.Code {
	case codeTokenInvalid, codeTokenExpired:
		return true
	default:
		return false
	}
}

const (
	// codeTokenInvalid means the access token is unknown to the API.
	codeTokenInvalid = 1010
	// codeTokenExpired means the access token has expired.
	codeTokenExpired = 1011
)
