package health

import "errors"

var (
	// ErrCheckTimeout indicates a health check did not finish in time.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckerNotFound indicates a checker was not found.
	ErrCheckerNotFound = errors.New("health: checker not found")

	// ErrBacklog indicates a rate limiter queue is over its threshold.
	ErrBacklog = errors.New("health: rate limiter backlog")
)
