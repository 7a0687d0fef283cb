// Package webhook is the client for the KORE webhook API, which manages
// the signing secrets used to verify webhook deliveries.
package webhook
