// Package auth acquires and caches OAuth2 client-credentials bearer tokens.
//
// An Authority owns one Credentials pair for its lifetime. ValidToken returns
// the cached access token until it is within RefreshBuffer of expiry, then
// performs exactly one refresh shared by every concurrent caller. A failed
// refresh clears the cache so no stale token is ever served.
//
// Credential rejections surface as *apierr.AuthError; an unreachable or slow
// authority surfaces as *apierr.TransientError. The Authority never retries on
// its own; retrying is left to the caller's retry policy.
package auth
