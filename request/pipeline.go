package request

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/kore/apierr"
	"github.com/jonwraymond/kore/observe"
	"github.com/jonwraymond/kore/resilience"
)

// Defaults for PipelineConfig.
const (
	DefaultTimeout          = 30 * time.Second
	DefaultMaxResponseBytes = 10 << 20
	DefaultUserAgent        = "kore-go"
)

// TokenSource supplies bearer tokens. *auth.Authority implements it.
type TokenSource interface {
	// ValidToken returns a token that is not about to expire.
	ValidToken(ctx context.Context) (string, error)

	// InvalidateToken drops the cached token if it is still accessToken,
	// so the next call refreshes it.
	InvalidateToken(accessToken string)
}

// PipelineConfig configures a Pipeline.
type PipelineConfig struct {
	// API names the service surface in logs, spans and metrics.
	API string

	// BaseURL is the service origin, e.g.
	// https://programmable-wireless.api.korewireless.com. Required.
	BaseURL string

	// BasePath is prepended to every Descriptor.Path, e.g. "/v1".
	BasePath string

	// TokenSource supplies bearer tokens. Required.
	TokenSource TokenSource

	// HTTPClient is the HTTP client to use. If nil, http.DefaultClient is used.
	HTTPClient *http.Client

	// Timeout bounds one exchange, including reading the body.
	// Default: 30s
	Timeout time.Duration

	// MaxResponseBytes bounds the response body.
	// Default: 10 MiB
	MaxResponseBytes int64

	// UserAgent is sent on every request.
	// Default: kore-go
	UserAgent string

	// AllowInsecure admits plain http URLs.
	AllowInsecure bool

	// RequestInterceptors run after the default request interceptors.
	RequestInterceptors []RequestInterceptor

	// ResponseInterceptors run after the default response interceptors.
	ResponseInterceptors []ResponseInterceptor

	// Middleware traces, measures and logs each call.
	// Default: observe.NewMiddleware(nil, nil, nil)
	Middleware *observe.Middleware
}

// Validate checks the required fields.
func (c *PipelineConfig) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if c.BaseURL == "" || err != nil || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrMissingBaseURL, c.BaseURL)
	}
	if c.TokenSource == nil {
		return ErrMissingTokenSource
	}
	return nil
}

// Pipeline sends authenticated requests to one service surface.
//
// Contract:
//   - Concurrency: safe for concurrent use; calls share no mutable state.
//   - Context: ctx cancellation ends the call with ctx.Err().
//   - Errors: *apierr.ValidationError, *apierr.APIError,
//     *apierr.RateLimitError, *apierr.TimeoutError, *apierr.TransientError,
//     *apierr.ParseError, or an error from the TokenSource.
type Pipeline struct {
	config     PipelineConfig
	baseURL    string
	timeout    *resilience.Timeout
	middleware *observe.Middleware
	reqChain   []RequestInterceptor
	respChain  []ResponseInterceptor
}

// NewPipeline validates config and creates a Pipeline.
func NewPipeline(config PipelineConfig) (*Pipeline, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Apply defaults
	if config.HTTPClient == nil {
		config.HTTPClient = http.DefaultClient
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.MaxResponseBytes <= 0 {
		config.MaxResponseBytes = DefaultMaxResponseBytes
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.Middleware == nil {
		config.Middleware = observe.NewMiddleware(nil, nil, nil)
	}

	return &Pipeline{
		config:     config,
		baseURL:    strings.TrimRight(config.BaseURL, "/") + config.BasePath,
		timeout:    resilience.NewTimeout(resilience.TimeoutConfig{Timeout: config.Timeout}),
		middleware: config.Middleware,
		reqChain:   append(DefaultRequestInterceptors(config.AllowInsecure), config.RequestInterceptors...),
		respChain:  append(DefaultResponseInterceptors(), config.ResponseInterceptors...),
	}, nil
}

// API returns the configured surface name.
func (p *Pipeline) API() string {
	return p.config.API
}

// result is one classified exchange.
type result struct {
	status int
	body   []byte
	value  any
}

// Send performs the call described by d and returns the parsed JSON body:
// map[string]any, []any, a scalar, or nil for an empty body. Numbers are
// json.Number.
func (p *Pipeline) Send(ctx context.Context, d Descriptor) (any, error) {
	res, err := p.do(ctx, d)
	if err != nil {
		return nil, err
	}
	return res.value, nil
}

// SendInto performs the call described by d and decodes the body into out.
// An empty body leaves out untouched.
func (p *Pipeline) SendInto(ctx context.Context, d Descriptor, out any) error {
	res, err := p.do(ctx, d)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(res.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(res.body, out); err != nil {
		return &apierr.ParseError{Status: res.status, Err: err}
	}
	return nil
}

func (p *Pipeline) do(ctx context.Context, d Descriptor) (*result, error) {
	if err := ValidateBody(d.Body); err != nil {
		return nil, err
	}
	if err := ValidateQuery(d.Query); err != nil {
		return nil, err
	}

	meta := observe.CallMeta{
		API:       p.config.API,
		Method:    d.method(),
		Path:      p.config.BasePath + d.Path,
		RequestID: uuid.NewString(),
	}

	var res *result
	call := p.middleware.Wrap(func(ctx context.Context, meta observe.CallMeta) (int, error) {
		r, err := p.exchange(ctx, meta, d)
		if r == nil {
			return 0, err
		}
		res = r
		return r.status, err
	})
	if _, err := call(ctx, meta); err != nil {
		return nil, err
	}
	return res, nil
}

// exchange runs one request through the interceptors, the transport and the
// classifier. The returned result is non-nil whenever a response arrived.
func (p *Pipeline) exchange(ctx context.Context, meta observe.CallMeta, d Descriptor) (*result, error) {
	token, err := p.config.TokenSource.ValidToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := p.build(ctx, meta, d, token)
	if err != nil {
		return nil, err
	}
	for _, ic := range p.reqChain {
		if err := ic.InterceptRequest(ctx, req); err != nil {
			return nil, err
		}
	}

	p.middleware.Logger().WithCall(meta).Debug(ctx, "sending request",
		observe.F("headers", req.Header),
		observe.F("query", d.Query),
		observe.F("body", d.Body),
	)

	var resp *Response
	op := meta.Method + " " + meta.Path
	err = p.timeout.ExecuteNamed(ctx, op, func(ctx context.Context) error {
		r, err := p.roundTrip(req.WithContext(ctx), op)
		resp = r
		return err
	})
	if err != nil {
		return nil, err
	}

	// Interceptors may rewrite the status. Whether the body is parsed
	// follows the status the service sent; classification follows the
	// rewritten one.
	sent := resp.Status
	for _, ic := range p.respChain {
		if err := ic.InterceptResponse(ctx, req, resp); err != nil {
			return &result{status: resp.Status, body: resp.Body}, err
		}
	}

	res := &result{status: resp.Status, body: resp.Body}
	if !success(sent) {
		if sent == http.StatusUnauthorized {
			p.config.TokenSource.InvalidateToken(token)
		}
		return res, apierr.FromStatus(resp.Status)
	}

	res.value, err = parseJSON(resp)
	if err != nil {
		return res, err
	}
	if !success(resp.Status) || !d.expects(resp.Status) {
		return res, unexpectedStatus(resp.Status, res.value)
	}
	return res, nil
}

func success(status int) bool {
	return status >= 200 && status <= 299
}

func (p *Pipeline) build(ctx context.Context, meta observe.CallMeta, d Descriptor, token string) (*http.Request, error) {
	target := p.baseURL + d.Path
	if len(d.Query) > 0 {
		target += "?" + d.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	if d.Body != nil {
		if d.formEncoded() {
			form, err := EncodeForm(d.Body)
			if err != nil {
				return nil, err
			}
			body = strings.NewReader(form.Encode())
			contentType = "application/x-www-form-urlencoded"
		} else {
			raw, err := json.Marshal(d.Body)
			if err != nil {
				return nil, &apierr.ValidationError{Reason: err.Error()}
			}
			body = bytes.NewReader(raw)
			contentType = "application/json"
		}
	}

	req, err := http.NewRequestWithContext(ctx, meta.Method, target, body)
	if err != nil {
		return nil, &apierr.ValidationError{Field: "url", Reason: err.Error()}
	}
	for k, values := range d.Headers {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("User-Agent", p.config.UserAgent)
	req.Header.Set("X-Request-Id", meta.RequestID)
	return req, nil
}

// roundTrip sends req and reads the whole body, bounded by
// MaxResponseBytes. The body is always closed.
func (p *Pipeline) roundTrip(req *http.Request, op string) (*Response, error) {
	httpResp, err := p.config.HTTPClient.Do(req)
	if err != nil {
		return nil, &apierr.TransientError{Op: op, Err: err}
	}
	defer func() { _ = httpResp.Body.Close() }()

	limit := p.config.MaxResponseBytes
	body, err := io.ReadAll(io.LimitReader(httpResp.Body, limit+1))
	if err != nil {
		return nil, &apierr.TransientError{Op: op, Err: err}
	}
	if int64(len(body)) > limit {
		return nil, &apierr.ParseError{
			Status: httpResp.StatusCode,
			Err:    fmt.Errorf("response body exceeds %d bytes", limit),
		}
	}

	return &Response{
		Status: httpResp.StatusCode,
		Header: httpResp.Header,
		Body:   body,
	}, nil
}

func parseJSON(resp *Response) (any, error) {
	if resp.Status == http.StatusNoContent || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(resp.Body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &apierr.ParseError{Status: resp.Status, Err: err}
	}
	if dec.More() {
		return nil, &apierr.ParseError{Status: resp.Status, Err: errors.New("trailing data after JSON value")}
	}
	return v, nil
}

// unexpectedStatus builds an APIError for a 2xx outside Descriptor.Expected,
// preferring the service's own code, message and more_info.
func unexpectedStatus(status int, body any) error {
	e := &apierr.APIError{
		Code:    "http_" + strconv.Itoa(status),
		Status:  status,
		Message: "api request failed",
	}
	m, ok := body.(map[string]any)
	if !ok {
		return e
	}
	if s := scalarString(m["code"]); s != "" {
		e.Code = s
	}
	if s := scalarString(m["message"]); s != "" {
		e.Message = s
	}
	if s := scalarString(m["more_info"]); s != "" {
		e.Details = s
	} else if s := scalarString(m["details"]); s != "" {
		e.Details = s
	}
	return e
}

func scalarString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
