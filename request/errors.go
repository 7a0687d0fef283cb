package request

import "errors"

// Sentinel errors for pipeline construction.
var (
	// ErrMissingBaseURL is returned when PipelineConfig.BaseURL is empty or
	// not an absolute URL.
	ErrMissingBaseURL = errors.New("request: base url is required")

	// ErrMissingTokenSource is returned when PipelineConfig.TokenSource is nil.
	ErrMissingTokenSource = errors.New("request: token source is required")
)
