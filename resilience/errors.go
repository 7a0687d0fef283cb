package resilience

import "errors"

// Sentinel errors for resilience operations.
var (
	// ErrInvalidRate is returned when a rate limiter is built with a
	// non-positive rate.
	ErrInvalidRate = errors.New("resilience: rate must be positive")

	// ErrLimiterClosed is returned for tasks scheduled on, or still queued
	// in, a closed rate limiter.
	ErrLimiterClosed = errors.New("resilience: rate limiter closed")
)
