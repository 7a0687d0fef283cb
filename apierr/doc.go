// Package apierr defines the error taxonomy shared by every kore component.
//
// Each failure surfaced to a caller is exactly one of the typed errors in this
// package, or a context error when the caller's own context ended:
//
//   - APIError: the service answered with an error status or an unexpected
//     success status.
//   - RateLimitError: a 429 carrying a Retry-After hint. It unwraps to the
//     underlying APIError so errors.As(err, &*APIError) still matches.
//   - AuthError: the token authority rejected the credentials.
//   - ValidationError: input was refused before any network I/O.
//   - TimeoutError: a request exceeded its deadline.
//   - ParseError: a response body could not be decoded.
//   - TransientError: the service could not be reached.
//
// IsRetryable is the single classification used by the retry policy.
package apierr
