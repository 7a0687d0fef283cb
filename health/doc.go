// Package health reports whether a kore.Client can reach KORE.
//
// A Checker reports Healthy, Degraded or Unhealthy. The package provides:
//
//   - TokenChecker: the token authority accepts the credentials.
//   - EndpointChecker: an API surface answers, and answers quickly.
//   - LimiterChecker: a surface's rate limiter is not backed up.
//
// An Aggregator runs a set of checkers under one deadline:
//
//	agg := health.NewAggregator()
//	agg.Register(health.NewTokenChecker(client.Token))
//	agg.Register(health.NewEndpointChecker("client", func(ctx context.Context) error {
//	    _, err := client.ClientAPI.Ping(ctx)
//	    return err
//	}, time.Second))
//
//	reports := agg.CheckAll(ctx)
//	if health.Overall(reports) == health.StatusUnhealthy {
//	    ...
//	}
package health
