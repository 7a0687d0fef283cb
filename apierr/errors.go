package apierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// APIError is a failure reported by a service.
type APIError struct {
	// Code is the service error code, or "http_<status>" when the body
	// carried none.
	Code string

	// Status is the HTTP status code of the response.
	Status int

	// Message is a human readable description.
	Message string

	// Details holds additional information such as a documentation link.
	Details string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("kore: api error %d (%s): %s [%s]", e.Status, e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("kore: api error %d (%s): %s", e.Status, e.Code, e.Message)
}

// FromStatus builds an APIError carrying only the HTTP status.
func FromStatus(status int) *APIError {
	msg := http.StatusText(status)
	if msg == "" {
		msg = "unexpected status"
	}
	return &APIError{
		Code:    fmt.Sprintf("http_%d", status),
		Status:  status,
		Message: msg,
	}
}

// RateLimitError is a 429 response that advertised when to try again.
type RateLimitError struct {
	// RetryAfter is the delay advertised by the service.
	RetryAfter time.Duration

	// Err is the underlying 429 APIError.
	Err *APIError
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("kore: rate limited, retry after %s", e.RetryAfter)
}

// Unwrap returns the underlying APIError.
func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// AuthError is a credential rejection from the token authority.
type AuthError struct {
	// Code is the OAuth2 error code, e.g. "invalid_client".
	Code string

	// Description is the OAuth2 error_description.
	Description string

	// Status is the HTTP status of the token response.
	Status int
}

func (e *AuthError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("kore: authentication failed: %s: %s", e.Code, e.Description)
	}
	return fmt.Sprintf("kore: authentication failed: %s", e.Code)
}

// ValidationError is an input rejected before any request was sent.
type ValidationError struct {
	// Field is the offending key path, empty when the whole value is at fault.
	Field string

	// Reason describes the violated rule.
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("kore: invalid input %q: %s", e.Field, e.Reason)
	}
	return "kore: invalid input: " + e.Reason
}

// TimeoutError is a request that exceeded its deadline.
type TimeoutError struct {
	// Op names the timed out operation, e.g. "GET /v1/Sims".
	Op string

	// Timeout is the deadline that was exceeded.
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("kore: %s timed out after %s", e.Op, e.Timeout)
}

// ParseError is a response body that could not be decoded.
type ParseError struct {
	// Status is the HTTP status of the undecodable response.
	Status int

	// Err is the decoding failure.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("kore: cannot parse response (status %d): %v", e.Status, e.Err)
}

// Unwrap returns the decoding failure.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// TransientError is a transport failure, e.g. an unreachable host.
type TransientError struct {
	// Op names the failed operation.
	Op string

	// Err is the transport error.
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("kore: %s: %v", e.Op, e.Err)
}

// Unwrap returns the transport error.
func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is worth another attempt.
//
// Timeouts, transport failures, 429 and 5xx responses are retryable.
// Validation, authentication and parse failures, other 4xx responses and
// context cancellation are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var rl *RateLimitError
	if errors.As(err, &rl) {
		return true
	}
	var te *TimeoutError
	if errors.As(err, &te) {
		return true
	}
	var tr *TransientError
	if errors.As(err, &tr) {
		return true
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status >= 500 || ae.Status == http.StatusTooManyRequests
	}
	return false
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status
	}
	var au *AuthError
	if errors.As(err, &au) {
		return au.Status
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Status
	}
	return 0
}
