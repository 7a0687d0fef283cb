// Package resilience provides the throttling, retry and timeout patterns
// that sit between a resource call and the request pipeline.
//
// # Patterns
//
//   - Rate Limiter: a FIFO queue drained by one dispatcher goroutine. Tasks
//     run one at a time and two dispatches are never closer than 1/Rate
//     seconds apart. Each API surface owns its own limiter.
//
//   - Retry: re-invokes an operation while RetryIf classifies the failure as
//     transient, waiting InitialDelay * Multiplier^(attempt-1) between
//     attempts. The last error is returned unchanged.
//
//   - Timeout: bounds one attempt and reports its own expiry as
//     *apierr.TimeoutError.
//
// # Usage
//
//	rl, err := resilience.NewRateLimiter(resilience.RateLimiterConfig{
//	    Rate: 10, // dispatches per second
//	    Name: "wireless",
//	})
//	if err != nil {
//	    return err
//	}
//	defer rl.Close()
//
//	executor := resilience.NewExecutor(
//	    resilience.WithRateLimiter(rl),
//	    resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{})),
//	)
//
//	err = executor.Execute(ctx, func(ctx context.Context) error {
//	    return callExternalService(ctx)
//	})
package resilience
