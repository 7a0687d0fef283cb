// Package kore is a Go client for the KORE Wireless REST APIs.
//
// A Client authenticates with OAuth2 client credentials and exposes one
// resource client per API surface:
//
//   - Wireless: Programmable Wireless SIMs, rate plans, commands, usage.
//   - SuperSim: Super SIM fleets, registration and IP/SMS commands.
//   - Webhooks: webhook signing secrets.
//   - ClientAPI: connectivity checks.
//
// Every call goes through the surface's FIFO rate limiter, the retry
// policy and the request pipeline, in that order. All surfaces share one
// token authority, so concurrent calls trigger at most one token refresh.
//
// # Usage
//
//	client, err := kore.NewClient(kore.Config{
//	    ClientID:     os.Getenv("KORE_CLIENT_ID"),
//	    ClientSecret: os.Getenv("KORE_CLIENT_SECRET"),
//	})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	for sim, err := range client.Wireless.AllSims(ctx, wireless.SimFilter{}) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(sim.SID, sim.Status)
//	}
//
// # Errors
//
// Failures are typed values from package apierr. Use errors.As to inspect
// them, or apierr.IsRetryable and apierr.StatusCode for common checks.
package kore
