// Package token reads claims out of backend-issued access tokens.
//
// The client side holds no verification key; tokens are parsed unverified,
// purely to learn their metadata (the backend remains the authority on
// validity and answers 401 when a token is stale).
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Expiry returns the access token's exp claim, or the zero time when the
// token is not a parseable JWT or carries no expiry.
func Expiry(raw string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// Expired reports whether the token's expiry is known and in the past.
func Expired(raw string, now time.Time) bool {
	expiry := Expiry(raw)
	return !expiry.IsZero() && expiry.Before(now)
}
