package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/kore/apierr"
	"github.com/jonwraymond/kore/observe"
)

// Defaults for AuthorityConfig.
const (
	DefaultBaseURL       = "https://api.korewireless.com/api-services"
	DefaultTokenPath     = "/v1/auth/token"
	DefaultRefreshBuffer = 300 * time.Second
	DefaultTokenTTL      = time.Hour
	DefaultTimeout       = 30 * time.Second

	// maxTokenResponseBytes bounds the token response body.
	maxTokenResponseBytes = 1 << 20
)

// AuthorityConfig configures the token authority.
type AuthorityConfig struct {
	// Credentials is the client identity. Required.
	Credentials Credentials

	// BaseURL is the authority base URL.
	// Default: https://api.korewireless.com/api-services
	BaseURL string

	// TokenPath is appended to BaseURL.
	// Default: /v1/auth/token
	TokenPath string

	// RefreshBuffer is how long before expiry a token is refreshed.
	// Default: 300s
	RefreshBuffer time.Duration

	// DefaultTTL is the lifetime assumed when the response carries neither
	// expires_in nor a JWT exp claim.
	// Default: 1h
	DefaultTTL time.Duration

	// Timeout bounds each authority call.
	// Default: 30s
	Timeout time.Duration

	// HTTPClient is the HTTP client to use. If nil, http.DefaultClient is used.
	HTTPClient *http.Client

	// Logger receives refresh events. Default: observe.NopLogger()
	Logger observe.Logger

	// Metrics records authority calls. Default: observe.NopMetrics()
	Metrics observe.Metrics

	// Now returns the current time. Default: time.Now
	Now func() time.Time
}

// Authority acquires and caches bearer tokens for one Credentials pair.
//
// Contract:
// - Concurrency: safe for concurrent use; at most one refresh is in flight.
// - Context: a caller's ctx bounds only its own wait, never the shared refresh.
// - Errors: *apierr.AuthError, *apierr.APIError, *apierr.ParseError,
//   *apierr.TransientError, ErrClosed, or the caller's ctx.Err().
type Authority struct {
	config   AuthorityConfig
	tokenURL string

	mu     sync.RWMutex
	token  *Token
	closed atomic.Bool

	sfGroup   singleflight.Group
	refreshes atomic.Int64
}

// NewAuthority validates the configuration and creates an Authority.
// No network call is made until the first ValidToken.
func NewAuthority(config AuthorityConfig) (*Authority, error) {
	if err := ValidateCredentials(config.Credentials); err != nil {
		return nil, err
	}

	// Apply defaults
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.TokenPath == "" {
		config.TokenPath = DefaultTokenPath
	}
	if config.RefreshBuffer <= 0 {
		config.RefreshBuffer = DefaultRefreshBuffer
	}
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = DefaultTokenTTL
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.HTTPClient == nil {
		config.HTTPClient = http.DefaultClient
	}
	if config.Logger == nil {
		config.Logger = observe.NopLogger()
	}
	if config.Metrics == nil {
		config.Metrics = observe.NopMetrics()
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	base, err := url.Parse(strings.TrimRight(config.BaseURL, "/"))
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrMissingBaseURL, config.BaseURL)
	}

	return &Authority{
		config:   config,
		tokenURL: base.String() + config.TokenPath,
	}, nil
}

// ValidToken returns a non-expired access token, refreshing it if needed.
func (a *Authority) ValidToken(ctx context.Context) (string, error) {
	tok, err := a.Token(ctx)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// Token returns a copy of the current valid token, refreshing it if needed.
func (a *Authority) Token(ctx context.Context) (Token, error) {
	if a.closed.Load() {
		return Token{}, ErrClosed
	}
	if tok := a.cached(); tok != nil {
		return *tok, nil
	}

	ch := a.sfGroup.DoChan("token", func() (any, error) {
		// A flight that finished just before this one may have filled the cache.
		if tok := a.cached(); tok != nil {
			return tok, nil
		}
		return a.refresh(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return Token{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Token{}, res.Err
		}
		return *res.Val.(*Token), nil
	}
}

// Invalidate drops the cached token so the next call refreshes.
func (a *Authority) Invalidate() {
	a.mu.Lock()
	a.token = nil
	a.mu.Unlock()
}

// InvalidateToken drops the cached token only if it is still accessToken.
// A rejection of a token that was already replaced leaves the newer one.
func (a *Authority) InvalidateToken(accessToken string) {
	a.mu.Lock()
	if a.token != nil && a.token.AccessToken == accessToken {
		a.token = nil
	}
	a.mu.Unlock()
}

// Close clears the cached token. Later calls fail with ErrClosed.
func (a *Authority) Close() error {
	a.closed.Store(true)
	a.Invalidate()
	return nil
}

// Refreshes returns the number of authority calls made so far.
func (a *Authority) Refreshes() int64 {
	return a.refreshes.Load()
}

func (a *Authority) cached() *Token {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.token.ValidAt(a.config.Now(), a.config.RefreshBuffer) {
		return a.token
	}
	return nil
}

// refresh performs exactly one authority call and stores its outcome.
func (a *Authority) refresh(ctx context.Context) (*Token, error) {
	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	start := time.Now()
	a.refreshes.Add(1)
	tok, err := a.fetch(ctx)
	a.config.Metrics.RecordTokenRefresh(ctx, time.Since(start), err)

	a.mu.Lock()
	if err != nil || a.closed.Load() {
		a.token = nil
	} else {
		a.token = tok
	}
	a.mu.Unlock()

	if err != nil {
		a.config.Logger.Warn(ctx, "token refresh failed",
			observe.F("error", err.Error()),
		)
		return nil, err
	}
	if a.closed.Load() {
		return nil, ErrClosed
	}

	a.config.Logger.Debug(ctx, "token refreshed",
		observe.F("expires_at", tok.ExpiresAt.UTC().Format(time.RFC3339)),
	)
	return tok, nil
}

func (a *Authority) fetch(ctx context.Context) (*Token, error) {
	form := url.Values{}
	form.Set("client_id", a.config.Credentials.ClientID)
	form.Set("client_secret", a.config.Credentials.ClientSecret)
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	op := "POST " + a.config.TokenPath
	resp, err := a.config.HTTPClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = &apierr.TimeoutError{Op: op, Timeout: a.config.Timeout}
		}
		return nil, &apierr.TransientError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseBytes))
	if err != nil {
		return nil, &apierr.TransientError{Op: op, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, unauthorizedError(resp.StatusCode, body)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, statusError(resp.StatusCode, body)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, &apierr.ParseError{Status: resp.StatusCode, Err: err}
	}
	if tr.AccessToken == "" {
		return nil, &apierr.ParseError{Status: resp.StatusCode, Err: ErrMissingAccessToken}
	}

	tokenType := tr.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return &Token{
		AccessToken: tr.AccessToken,
		TokenType:   tokenType,
		Scope:       tr.Scope,
		ExpiresAt:   expiryOf(tr, a.config.Now(), a.config.DefaultTTL),
	}, nil
}

func unauthorizedError(status int, body []byte) error {
	var ur unauthorizedResponse
	_ = json.Unmarshal(body, &ur)
	if ur.Error == "" {
		ur.Error = "unauthorized"
	}
	return &apierr.AuthError{
		Code:        ur.Error,
		Description: ur.ErrorDescription,
		Status:      status,
	}
}

func statusError(status int, body []byte) error {
	e := apierr.FromStatus(status)
	var er struct {
		Code    json.RawMessage `json:"code"`
		Message string          `json:"message"`
	}
	if json.Unmarshal(body, &er) == nil {
		if code := strings.Trim(string(er.Code), `"`); code != "" && code != "null" {
			e.Code = code
		}
		if er.Message != "" {
			e.Message = er.Message
		}
	}
	return e
}
