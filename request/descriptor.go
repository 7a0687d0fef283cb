package request

import (
	"net/http"
	"net/url"
	"slices"
)

// Descriptor describes one resource call.
type Descriptor struct {
	// Method is the HTTP method. Default: GET.
	Method string

	// Path is appended to the pipeline's BaseURL and BasePath, e.g. "/Sims".
	Path string

	// Query holds URL query parameters.
	Query url.Values

	// Body is the outbound payload. Values must be strings, booleans,
	// numbers, slices or string-keyed maps of those.
	Body map[string]any

	// JSON sends Body as application/json instead of form encoding.
	JSON bool

	// Expected lists the statuses treated as success. Default: 200.
	Expected []int

	// Headers are extra request headers.
	Headers http.Header
}

func (d Descriptor) method() string {
	if d.Method == "" {
		return http.MethodGet
	}
	return d.Method
}

func (d Descriptor) expects(status int) bool {
	if len(d.Expected) == 0 {
		return status == http.StatusOK
	}
	return slices.Contains(d.Expected, status)
}

// formEncoded reports whether the body is sent as
// application/x-www-form-urlencoded.
func (d Descriptor) formEncoded() bool {
	if d.JSON {
		return false
	}
	switch d.method() {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}
