package kore

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jonwraymond/kore/auth"
	"github.com/jonwraymond/kore/clientapi"
	"github.com/jonwraymond/kore/internal/service"
	"github.com/jonwraymond/kore/observe"
	"github.com/jonwraymond/kore/request"
	"github.com/jonwraymond/kore/resilience"
	"github.com/jonwraymond/kore/supersim"
	"github.com/jonwraymond/kore/webhook"
	"github.com/jonwraymond/kore/wireless"
)

// DefaultRequestsPerSecond is the dispatch rate of each surface's limiter.
const DefaultRequestsPerSecond = 10

// Config configures a Client. Only the credentials are required.
type Config struct {
	ClientID     string
	ClientSecret string

	// AuthURL is the token authority base URL.
	// Default: https://api.korewireless.com/api-services
	AuthURL string

	// Surface origins. Each defaults to the production host.
	WirelessURL string
	SuperSimURL string
	WebhookURL  string
	ClientURL   string

	// RequestsPerSecond is the dispatch rate of each surface.
	// Default: 10
	RequestsPerSecond float64

	// Retry configures the retry policy shared by all surfaces.
	// Default: 3 attempts, 1s initial delay, doubling.
	Retry resilience.RetryConfig

	// Timeout bounds each attempt and each token request.
	// Default: 30s
	Timeout time.Duration

	// HTTPClient is used for all calls. If nil, http.DefaultClient is used.
	HTTPClient *http.Client

	// Observer supplies tracing, metrics and logging. It takes precedence
	// over Logger.
	Observer observe.Observer

	// Logger receives call and refresh events when Observer is nil.
	Logger observe.Logger

	// AllowInsecure admits plain http URLs. Only for local testing.
	AllowInsecure bool

	// UserAgent is sent on every request.
	// Default: kore-go
	UserAgent string

	// RequestInterceptors and ResponseInterceptors run after the built-in
	// interceptors on every surface.
	RequestInterceptors  []request.RequestInterceptor
	ResponseInterceptors []request.ResponseInterceptor
}

// Client is the entry point to the KORE APIs.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Lifecycle: Close stops the rate limiters; later calls fail with
//     resilience.ErrLimiterClosed.
type Client struct {
	Wireless  *wireless.Client
	SuperSim  *supersim.Client
	Webhooks  *webhook.Client
	ClientAPI *clientapi.Client

	authority *auth.Authority
	limiters  []*resilience.RateLimiter
}

type surface struct {
	name    string
	baseURL string
	path    string
}

// NewClient validates config and creates a Client. No network call is
// made until the first request.
func NewClient(config Config) (*Client, error) {
	if config.RequestsPerSecond == 0 {
		config.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if config.Timeout <= 0 {
		config.Timeout = request.DefaultTimeout
	}

	mw, err := middleware(config)
	if err != nil {
		return nil, err
	}

	authority, err := auth.NewAuthority(auth.AuthorityConfig{
		Credentials: auth.Credentials{ClientID: config.ClientID, ClientSecret: config.ClientSecret},
		BaseURL:     config.AuthURL,
		Timeout:     config.Timeout,
		HTTPClient:  config.HTTPClient,
		Logger:      mw.Logger(),
		Metrics:     mw.Metrics(),
	})
	if err != nil {
		return nil, err
	}

	c := &Client{authority: authority}
	build := func(s surface) (*service.Service, error) {
		svc, rl, err := newService(config, s, authority, mw)
		if err != nil {
			return nil, err
		}
		c.limiters = append(c.limiters, rl)
		return svc, nil
	}

	surfaces := []struct {
		surface
		bind func(*service.Service)
	}{
		{surface{wireless.Name, or(config.WirelessURL, wireless.DefaultBaseURL), wireless.DefaultBasePath},
			func(s *service.Service) { c.Wireless = wireless.New(s) }},
		{surface{supersim.Name, or(config.SuperSimURL, supersim.DefaultBaseURL), supersim.DefaultBasePath},
			func(s *service.Service) { c.SuperSim = supersim.New(s) }},
		{surface{webhook.Name, or(config.WebhookURL, webhook.DefaultBaseURL), webhook.DefaultBasePath},
			func(s *service.Service) { c.Webhooks = webhook.New(s) }},
		{surface{clientapi.Name, or(config.ClientURL, clientapi.DefaultBaseURL), clientapi.DefaultBasePath},
			func(s *service.Service) { c.ClientAPI = clientapi.New(s) }},
	}
	for _, s := range surfaces {
		svc, err := build(s.surface)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		s.bind(svc)
	}
	return c, nil
}

func newService(config Config, s surface, tokens request.TokenSource, mw *observe.Middleware) (*service.Service, *resilience.RateLimiter, error) {
	p, err := request.NewPipeline(request.PipelineConfig{
		API:                  s.name,
		BaseURL:              s.baseURL,
		BasePath:             s.path,
		TokenSource:          tokens,
		HTTPClient:           config.HTTPClient,
		Timeout:              config.Timeout,
		UserAgent:            config.UserAgent,
		AllowInsecure:        config.AllowInsecure,
		RequestInterceptors:  config.RequestInterceptors,
		ResponseInterceptors: config.ResponseInterceptors,
		Middleware:           mw,
	})
	if err != nil {
		return nil, nil, err
	}

	rl, err := resilience.NewRateLimiter(resilience.RateLimiterConfig{
		Rate: config.RequestsPerSecond,
		Name: s.name,
	})
	if err != nil {
		return nil, nil, err
	}

	retryConfig := config.Retry
	if retryConfig.OnRetry == nil {
		logger := mw.Logger()
		retryConfig.OnRetry = func(attempt int, err error, delay time.Duration) {
			logger.Warn(context.Background(), "retrying request",
				observe.F("api", s.name),
				observe.F("attempt", attempt),
				observe.F("delay", delay.String()),
				observe.F("error", err.Error()),
			)
		}
	}

	executor := resilience.NewExecutor(
		resilience.WithRateLimiter(rl),
		resilience.WithRetry(resilience.NewRetry(retryConfig)),
	)
	return service.New(p, executor), rl, nil
}

func middleware(config Config) (*observe.Middleware, error) {
	if config.Observer != nil {
		return observe.MiddlewareFromObserver(config.Observer)
	}
	return observe.NewMiddleware(nil, nil, config.Logger), nil
}

func or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

// Token returns a valid access token, refreshing it if needed.
func (c *Client) Token(ctx context.Context) (string, error) {
	return c.authority.ValidToken(ctx)
}

// TokenRefreshes reports how many token requests have been sent.
func (c *Client) TokenRefreshes() int64 {
	return c.authority.Refreshes()
}

// Limiters returns the rate limiter of each surface.
func (c *Client) Limiters() []*resilience.RateLimiter {
	return append([]*resilience.RateLimiter(nil), c.limiters...)
}

// Close stops every rate limiter and the token authority. Queued calls
// fail with resilience.ErrLimiterClosed.
func (c *Client) Close() error {
	var errs []error
	for _, rl := range c.limiters {
		errs = append(errs, rl.Close())
	}
	errs = append(errs, c.authority.Close())
	return errors.Join(errs...)
}
