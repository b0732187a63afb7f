package appliance

import (
	"errors"
	"fmt"
)

var (
	// ErrAPI reports a request the appliance answered with an error
	// body this client has no more specific mapping for.
	ErrAPI = errors.New("appliance: api error")
	// ErrUnauthorized reports rejected credentials, a missing session
	// or an expired one.
	ErrUnauthorized = errors.New("appliance: unauthorized")
)

// apiError is the error object inside a failed response envelope.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// Appliance error codes this client recognises. The firmware defines
// many more; anything unlisted surfaces as ErrAPI with its code.
const (
	codeNoSuchAccount    = 400
	codeAccountDisabled  = 401
	codePermissionDenied = 402
	codeSessionRequired  = 105
	codeSessionExpired   = 106
	codeSIDNotFound      = 119
)

func dispatch(e *apiError) error {
	if e == nil {
		return fmt.Errorf("%w: malformed error body", ErrAPI)
	}
	switch e.Code {
	case codeNoSuchAccount, codeAccountDisabled, codePermissionDenied,
		codeSessionRequired, codeSessionExpired, codeSIDNotFound:
		return fmt.Errorf("%w: code %d", ErrUnauthorized, e.Code)
	default:
		if e.Message != "" {
			return fmt.Errorf("%w: code %d: %s", ErrAPI, e.Code, e.Message)
		}
		return fmt.Errorf("%w: code %d", ErrAPI, e.Code)
	}
}
