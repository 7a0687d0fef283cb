package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jonwraymond/kore/apierr"
	"github.com/jonwraymond/kore/observe"
)

var testCreds = Credentials{ClientID: "kore-client", ClientSecret: "kore-secret"}

// fakeClock is a settable clock for expiry tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// tokenServer answers token requests with sequentially numbered tokens.
func tokenServer(t *testing.T, expiresIn int64, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "token-" + string(rune('0'+n)),
			"expires_in":   expiresIn,
			"token_type":   "Bearer",
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestAuthority(t *testing.T, url string, mutate func(*AuthorityConfig)) *Authority {
	t.Helper()
	cfg := AuthorityConfig{Credentials: testCreds, BaseURL: url}
	if mutate != nil {
		mutate(&cfg)
	}
	a, err := NewAuthority(cfg)
	if err != nil {
		t.Fatalf("NewAuthority() error = %v", err)
	}
	return a
}

func TestNewAuthority_Defaults(t *testing.T) {
	a, err := NewAuthority(AuthorityConfig{Credentials: testCreds})
	if err != nil {
		t.Fatalf("NewAuthority() error = %v", err)
	}
	if a.tokenURL != "https://api.korewireless.com/api-services/v1/auth/token" {
		t.Errorf("tokenURL = %q", a.tokenURL)
	}
	if a.config.RefreshBuffer != 300*time.Second {
		t.Errorf("RefreshBuffer = %v, want 300s", a.config.RefreshBuffer)
	}
	if a.config.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", a.config.Timeout)
	}
}

func TestNewAuthority_Invalid(t *testing.T) {
	if _, err := NewAuthority(AuthorityConfig{}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("empty credentials: error = %v, want ErrInvalidCredentials", err)
	}
	_, err := NewAuthority(AuthorityConfig{Credentials: testCreds, BaseURL: "not a url"})
	if !errors.Is(err, ErrMissingBaseURL) {
		t.Errorf("bad base url: error = %v, want ErrMissingBaseURL", err)
	}
}

func TestAuthority_RequestFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/auth/token" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q", ct)
		}
		if cc := r.Header.Get("Cache-Control"); cc != "no-cache" {
			t.Errorf("Cache-Control = %q", cc)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		want := map[string]string{
			"client_id":     "kore-client",
			"client_secret": "kore-secret",
			"grant_type":    "client_credentials",
		}
		for k, v := range want {
			if got := r.PostForm.Get(k); got != v {
				t.Errorf("form[%s] = %q, want %q", k, got, v)
			}
		}
		_, _ = w.Write([]byte(`{"access_token":"abc","expires_in":3600,"token_type":"Bearer","scope":"api"}`))
	}))
	defer srv.Close()

	a := newTestAuthority(t, srv.URL, nil)
	tok, err := a.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if tok.AccessToken != "abc" || tok.TokenType != "Bearer" || tok.Scope != "api" {
		t.Errorf("Token() = %+v", tok)
	}
}

func TestAuthority_SingleFlight(t *testing.T) {
	var hits atomic.Int64
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		_, _ = w.Write([]byte(`{"access_token":"shared","expires_in":3600,"token_type":"Bearer"}`))
	}))
	defer srv.Close()

	a := newTestAuthority(t, srv.URL, nil)

	const n = 50
	var wg sync.WaitGroup
	results := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = a.ValidToken(context.Background())
		}(i)
	}

	// Let every caller join the flight before the authority answers.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := hits.Load(); got != 1 {
		t.Errorf("authority calls = %d, want 1", got)
	}
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d error = %v", i, errs[i])
		}
		if results[i] != "shared" {
			t.Errorf("caller %d token = %q, want shared", i, results[i])
		}
	}
}

func TestAuthority_CachedTokenIsIdempotent(t *testing.T) {
	var hits atomic.Int64
	srv := tokenServer(t, 3600, &hits)
	a := newTestAuthority(t, srv.URL, nil)

	first, err := a.ValidToken(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		got, err := a.ValidToken(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if got != first {
			t.Errorf("ValidToken() = %q, want cached %q", got, first)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("authority calls = %d, want 1", hits.Load())
	}
}

func TestAuthority_RefreshWithinBuffer(t *testing.T) {
	var hits atomic.Int64
	srv := tokenServer(t, 3600, &hits)
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	a := newTestAuthority(t, srv.URL, func(c *AuthorityConfig) { c.Now = clock.Now })

	first, err := a.ValidToken(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	// 3000s later the token has 600s left: still outside the 300s buffer.
	clock.Advance(3000 * time.Second)
	if got, _ := a.ValidToken(context.Background()); got != first || hits.Load() != 1 {
		t.Fatalf("token refreshed too early: %q, calls=%d", got, hits.Load())
	}

	// 200s left: inside the buffer, exactly one refresh.
	clock.Advance(400 * time.Second)
	second, err := a.ValidToken(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if second == first {
		t.Error("expected a new token after entering the refresh buffer")
	}
	if hits.Load() != 2 {
		t.Errorf("authority calls = %d, want 2", hits.Load())
	}
}

func TestAuthority_Unauthorized(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_client","error_description":"bad secret"}`))
	}))
	defer srv.Close()

	a := newTestAuthority(t, srv.URL, nil)
	_, err := a.ValidToken(context.Background())

	var authErr *apierr.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("error = %T %v, want *apierr.AuthError", err, err)
	}
	if authErr.Code != "invalid_client" || authErr.Description != "bad secret" {
		t.Errorf("AuthError = %+v", authErr)
	}
	if apierr.IsRetryable(err) {
		t.Error("AuthError must not be retryable")
	}
	if hits.Load() != 1 {
		t.Errorf("authority calls = %d, want 1", hits.Load())
	}
}

func TestAuthority_FailureClearsCachedToken(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"code":20500,"message":"authority down"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"ok","expires_in":3600}`))
	}))
	defer srv.Close()

	clock := &fakeClock{now: time.Now()}
	a := newTestAuthority(t, srv.URL, func(c *AuthorityConfig) { c.Now = clock.Now })

	if _, err := a.ValidToken(context.Background()); err != nil {
		t.Fatal(err)
	}

	fail.Store(true)
	clock.Advance(3500 * time.Second)
	_, err := a.ValidToken(context.Background())

	var apiErr *apierr.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T %v, want *apierr.APIError", err, err)
	}
	if apiErr.Status != 500 || apiErr.Code != "20500" || apiErr.Message != "authority down" {
		t.Errorf("APIError = %+v", apiErr)
	}

	a.mu.RLock()
	cached := a.token
	a.mu.RUnlock()
	if cached != nil {
		t.Error("failed refresh must clear the cached token")
	}
}

func TestAuthority_ParseErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"access_token":`},
		{"missing access token", `{"expires_in":3600}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestAuthority(t, srv.URL, nil).ValidToken(context.Background())
			var pe *apierr.ParseError
			if !errors.As(err, &pe) {
				t.Errorf("error = %T %v, want *apierr.ParseError", err, err)
			}
		})
	}
}

func TestAuthority_TimeoutIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	a := newTestAuthority(t, srv.URL, func(c *AuthorityConfig) { c.Timeout = 50 * time.Millisecond })
	_, err := a.ValidToken(context.Background())

	var te *apierr.TransientError
	if !errors.As(err, &te) {
		t.Fatalf("error = %T %v, want *apierr.TransientError", err, err)
	}
	var timeout *apierr.TimeoutError
	if !errors.As(err, &timeout) {
		t.Errorf("error = %v, want wrapped *apierr.TimeoutError", err)
	}
	if !apierr.IsRetryable(err) {
		t.Error("authority timeout should be retryable by the caller")
	}
}

func TestAuthority_UnreachableIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestAuthority(t, url, nil).ValidToken(context.Background())
	var te *apierr.TransientError
	if !errors.As(err, &te) {
		t.Errorf("error = %T %v, want *apierr.TransientError", err, err)
	}
}

func TestAuthority_JWTExpiryFallback(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": exp.Unix(),
		"sub": "kore-client",
	}).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": raw, "token_type": "Bearer"})
	}))
	defer srv.Close()

	tok, err := newTestAuthority(t, srv.URL, nil).Token(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !tok.ExpiresAt.Equal(exp) {
		t.Errorf("ExpiresAt = %v, want %v", tok.ExpiresAt, exp)
	}
}

func TestAuthority_DefaultTTLFallback(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"opaque"}`))
	}))
	defer srv.Close()

	a := newTestAuthority(t, srv.URL, func(c *AuthorityConfig) {
		c.Now = func() time.Time { return now }
	})
	tok, err := a.Token(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if want := now.Add(time.Hour); !tok.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", tok.ExpiresAt, want)
	}
	if tok.TokenType != "Bearer" {
		t.Errorf("TokenType = %q, want Bearer", tok.TokenType)
	}
}

func TestAuthority_InvalidateAndClose(t *testing.T) {
	var hits atomic.Int64
	srv := tokenServer(t, 3600, &hits)
	a := newTestAuthority(t, srv.URL, nil)

	if _, err := a.ValidToken(context.Background()); err != nil {
		t.Fatal(err)
	}
	a.Invalidate()
	if _, err := a.ValidToken(context.Background()); err != nil {
		t.Fatal(err)
	}
	if a.Refreshes() != 2 || hits.Load() != 2 {
		t.Errorf("refreshes = %d, hits = %d, want 2", a.Refreshes(), hits.Load())
	}

	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := a.ValidToken(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("after Close: error = %v, want ErrClosed", err)
	}
}

func TestAuthority_CallerCancelDoesNotFailOthers(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte(`{"access_token":"late","expires_in":3600}`))
	}))
	defer srv.Close()

	a := newTestAuthority(t, srv.URL, nil)

	ctx, cancel := context.WithCancel(context.Background())
	impatient := make(chan error, 1)
	go func() {
		_, err := a.ValidToken(ctx)
		impatient <- err
	}()

	patient := make(chan string, 1)
	go func() {
		tok, _ := a.ValidToken(context.Background())
		patient <- tok
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	if err := <-impatient; !errors.Is(err, context.Canceled) {
		t.Errorf("canceled caller error = %v, want context.Canceled", err)
	}

	close(release)
	if tok := <-patient; tok != "late" {
		t.Errorf("patient caller token = %q, want late", tok)
	}
}

func TestAuthority_InvalidateTokenKeepsNewerToken(t *testing.T) {
	var hits atomic.Int64
	srv := tokenServer(t, 3600, &hits)
	a := newTestAuthority(t, srv.URL, nil)
	ctx := context.Background()

	first, err := a.ValidToken(ctx)
	if err != nil {
		t.Fatal(err)
	}
	a.Invalidate()
	second, err := a.ValidToken(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatalf("tokens = %q, %q, want distinct", first, second)
	}

	a.InvalidateToken(first)
	if got, err := a.ValidToken(ctx); err != nil || got != second {
		t.Errorf("after stale invalidation: ValidToken() = %q, %v, want %q", got, err, second)
	}
	if hits.Load() != 2 {
		t.Errorf("hits = %d, want 2", hits.Load())
	}

	a.InvalidateToken(second)
	if _, err := a.ValidToken(ctx); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 3 {
		t.Errorf("hits = %d, want 3 after invalidating the current token", hits.Load())
	}
}

func TestAuthority_LogsOmitCredentials(t *testing.T) {
	creds := Credentials{ClientID: "acme-prod-client-7", ClientSecret: "s3cr3t-value-9"}

	tests := []struct {
		name   string
		status int
		body   string
		ok     bool
	}{
		{"refreshed", http.StatusOK, `{"access_token":"abc","expires_in":3600}`, true},
		{"rejected", http.StatusUnauthorized, `{"error":"invalid_client"}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			var buf bytes.Buffer
			a := newTestAuthority(t, srv.URL, func(c *AuthorityConfig) {
				c.Credentials = creds
				c.Logger = observe.NewLoggerWithWriter("debug", &buf)
			})

			_, err := a.ValidToken(context.Background())
			if (err == nil) != tt.ok {
				t.Fatalf("ValidToken() error = %v", err)
			}
			out := buf.String()
			if out == "" {
				t.Fatal("no refresh event logged")
			}
			if strings.Contains(out, creds.ClientID) || strings.Contains(out, creds.ClientSecret) {
				t.Errorf("log leaks credentials: %s", out)
			}
		})
	}
}
