package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/kore/apierr"
	"github.com/jonwraymond/kore/resilience"
)

// TokenChecker reports whether a token can be obtained.
type TokenChecker struct {
	token func(ctx context.Context) (string, error)
}

// NewTokenChecker creates a TokenChecker around a token func such as
// (*kore.Client).Token.
func NewTokenChecker(token func(ctx context.Context) (string, error)) *TokenChecker {
	return &TokenChecker{token: token}
}

// Name returns "token".
func (c *TokenChecker) Name() string { return "token" }

// Check fetches a token. Rejected credentials are unhealthy; an
// unreachable authority is unhealthy with the transport error.
func (c *TokenChecker) Check(ctx context.Context) Result {
	if _, err := c.token(ctx); err != nil {
		var ae *apierr.AuthError
		if errors.As(err, &ae) {
			return Unhealthy("credentials rejected", err).WithDetails(map[string]any{"code": ae.Code})
		}
		return Unhealthy("token authority unavailable", err)
	}
	return Healthy("token valid")
}

// EndpointChecker calls one API surface and grades its latency.
type EndpointChecker struct {
	name string
	call func(ctx context.Context) error
	slow time.Duration
	now  func() time.Time
}

// NewEndpointChecker creates an EndpointChecker. A successful call slower
// than slow is degraded; slow <= 0 disables the latency grade.
func NewEndpointChecker(name string, call func(ctx context.Context) error, slow time.Duration) *EndpointChecker {
	return &EndpointChecker{name: name, call: call, slow: slow, now: time.Now}
}

// Name returns the surface name.
func (c *EndpointChecker) Name() string { return c.name }

// Check performs the call.
func (c *EndpointChecker) Check(ctx context.Context) Result {
	start := c.now()
	err := c.call(ctx)
	latency := c.now().Sub(start)
	details := map[string]any{"latency": latency.String()}

	switch {
	case err != nil:
		if status := apierr.StatusCode(err); status != 0 {
			details["status"] = status
		}
		return Unhealthy("endpoint failed", err).WithDetails(details)
	case c.slow > 0 && latency > c.slow:
		return Degraded(fmt.Sprintf("slow response (%s > %s)", latency, c.slow)).WithDetails(details)
	default:
		return Healthy("endpoint reachable").WithDetails(details)
	}
}

// LimiterChecker grades a rate limiter's queue depth.
type LimiterChecker struct {
	limiter  *resilience.RateLimiter
	maxQueue int
}

// NewLimiterChecker creates a LimiterChecker. More than maxQueue pending
// tasks is degraded.
func NewLimiterChecker(rl *resilience.RateLimiter, maxQueue int) *LimiterChecker {
	return &LimiterChecker{limiter: rl, maxQueue: maxQueue}
}

// Name returns "limiter:<surface>".
func (c *LimiterChecker) Name() string { return "limiter:" + c.limiter.Name() }

// Check reads the limiter statistics.
func (c *LimiterChecker) Check(context.Context) Result {
	stats := c.limiter.Stats()
	details := map[string]any{
		"pending":    stats.Pending,
		"dispatched": stats.Dispatched,
		"failed":     stats.Failed,
		"interval":   c.limiter.Interval().String(),
	}
	if stats.Pending > c.maxQueue {
		r := Degraded(fmt.Sprintf("%d requests queued", stats.Pending)).WithDetails(details)
		r.Error = ErrBacklog
		return r
	}
	return Healthy("queue within limit").WithDetails(details)
}
