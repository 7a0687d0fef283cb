package request

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jonwraymond/kore/apierr"
)

// Response is a received response with its body fully read.
type Response struct {
	// Status is the HTTP status. A response interceptor may rewrite it;
	// classification uses the rewritten value.
	Status int

	// Header holds the response headers.
	Header http.Header

	// Body is the raw response body.
	Body []byte
}

// RequestInterceptor inspects or modifies an outbound request before it is
// sent. A non-nil error aborts the call.
type RequestInterceptor interface {
	InterceptRequest(ctx context.Context, req *http.Request) error
}

// RequestInterceptorFunc adapts a function to RequestInterceptor.
type RequestInterceptorFunc func(ctx context.Context, req *http.Request) error

// InterceptRequest calls f(ctx, req).
func (f RequestInterceptorFunc) InterceptRequest(ctx context.Context, req *http.Request) error {
	return f(ctx, req)
}

// ResponseInterceptor inspects a received response before it is
// classified. It may rewrite resp.Status or reject the response.
type ResponseInterceptor interface {
	InterceptResponse(ctx context.Context, req *http.Request, resp *Response) error
}

// ResponseInterceptorFunc adapts a function to ResponseInterceptor.
type ResponseInterceptorFunc func(ctx context.Context, req *http.Request, resp *Response) error

// InterceptResponse calls f(ctx, req, resp).
func (f ResponseInterceptorFunc) InterceptResponse(ctx context.Context, req *http.Request, resp *Response) error {
	return f(ctx, req, resp)
}

// HTTPSOnly rejects requests whose URL is not absolute https.
type HTTPSOnly struct {
	// AllowInsecure also admits plain http, for local test servers.
	AllowInsecure bool
}

// InterceptRequest implements RequestInterceptor.
func (h HTTPSOnly) InterceptRequest(_ context.Context, req *http.Request) error {
	if req.URL == nil || req.URL.Host == "" {
		return &apierr.ValidationError{Field: "url", Reason: "must be an absolute URL"}
	}
	switch req.URL.Scheme {
	case "https":
		return nil
	case "http":
		if h.AllowInsecure {
			return nil
		}
	}
	return &apierr.ValidationError{
		Field:  "url",
		Reason: fmt.Sprintf("scheme %q is not allowed, use https", req.URL.Scheme),
	}
}

// SanitizeHeaders strips angle brackets and control characters from every
// header value and trims surrounding whitespace.
type SanitizeHeaders struct{}

// InterceptRequest implements RequestInterceptor.
func (SanitizeHeaders) InterceptRequest(_ context.Context, req *http.Request) error {
	for _, values := range req.Header {
		for i, v := range values {
			values[i] = SanitizeHeaderValue(v)
		}
	}
	return nil
}

// SanitizeHeaderValue returns v without '<', '>' or control characters.
func SanitizeHeaderValue(v string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r == '<' || r == '>' || r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, v))
}

// RateLimitDetector turns a 429 response carrying Retry-After into an
// *apierr.RateLimitError with the advertised delay.
type RateLimitDetector struct {
	// Now returns the current time for HTTP-date values.
	// Default: time.Now
	Now func() time.Time
}

// InterceptResponse implements ResponseInterceptor.
func (d RateLimitDetector) InterceptResponse(_ context.Context, _ *http.Request, resp *Response) error {
	if resp.Status != http.StatusTooManyRequests {
		return nil
	}
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	delay, ok := ParseRetryAfter(resp.Header.Get("Retry-After"), now())
	if !ok {
		return nil
	}
	return &apierr.RateLimitError{RetryAfter: delay, Err: apierr.FromStatus(resp.Status)}
}

// ParseRetryAfter parses a Retry-After value given either as delay seconds
// or as an HTTP-date. Dates in the past yield zero.
func ParseRetryAfter(v string, now time.Time) (time.Duration, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	t, err := http.ParseTime(v)
	if err != nil {
		return 0, false
	}
	return max(t.Sub(now), 0), true
}

// JSONContentType rejects 2xx responses with a non-empty body declared as
// anything other than JSON. A missing Content-Type is accepted.
type JSONContentType struct{}

// InterceptResponse implements ResponseInterceptor.
func (JSONContentType) InterceptResponse(_ context.Context, _ *http.Request, resp *Response) error {
	if resp.Status < 200 || resp.Status > 299 || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err == nil && (mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")) {
		return nil
	}
	return &apierr.ParseError{
		Status: resp.Status,
		Err:    fmt.Errorf("unexpected content type %q", ct),
	}
}

// DefaultRequestInterceptors returns HTTPSOnly and SanitizeHeaders.
func DefaultRequestInterceptors(allowInsecure bool) []RequestInterceptor {
	return []RequestInterceptor{
		HTTPSOnly{AllowInsecure: allowInsecure},
		SanitizeHeaders{},
	}
}

// DefaultResponseInterceptors returns RateLimitDetector and JSONContentType.
func DefaultResponseInterceptors() []ResponseInterceptor {
	return []ResponseInterceptor{
		RateLimitDetector{},
		JSONContentType{},
	}
}
