package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token is an issued bearer token. It is replaced, never mutated, on refresh.
type Token struct {
	AccessToken string
	TokenType   string
	Scope       string
	ExpiresAt   time.Time
}

// ValidAt reports whether the token is still usable at now when it must be
// refreshed buffer before its expiry.
func (t *Token) ValidAt(now time.Time, buffer time.Duration) bool {
	if t == nil || t.AccessToken == "" {
		return false
	}
	return t.ExpiresAt.Add(-buffer).After(now)
}

// tokenResponse is the token endpoint success body.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
}

// unauthorizedResponse is the token endpoint 401 body.
type unauthorizedResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// expiryOf computes the absolute expiry for a token response.
// expires_in wins; a JWT access token's exp claim is the fallback, then ttl.
func expiryOf(resp tokenResponse, now time.Time, ttl time.Duration) time.Time {
	if resp.ExpiresIn > 0 {
		return now.Add(time.Duration(resp.ExpiresIn) * time.Second)
	}
	if exp, ok := jwtExpiry(resp.AccessToken); ok {
		return exp
	}
	return now.Add(ttl)
}

// jwtExpiry reads the exp claim without verifying the signature.
// The token is only inspected for scheduling, never trusted.
func jwtExpiry(raw string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
