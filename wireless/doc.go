// Package wireless is the client for the KORE Programmable Wireless API:
// usage records, rate plans, SIMs, commands and data sessions.
//
// Calls share the surface's rate limiter and retry policy and return the
// typed errors of package apierr. Obtain a Client from kore.NewClient.
package wireless
