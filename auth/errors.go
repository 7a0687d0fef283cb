package auth

import "errors"

// Sentinel errors for the token authority.
var (
	// Construction errors
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrMissingBaseURL     = errors.New("auth: base url is required")

	// Runtime errors
	ErrClosed             = errors.New("auth: authority closed")
	ErrMissingAccessToken = errors.New("auth: token response has no access_token")
)
