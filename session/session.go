// Package session holds the authenticated context for the current process:
// the signed-in user, the in-memory access token and the durable refresh
// token. The access token is deliberately volatile; every cold start goes
// through a fresh refresh exchange.
package session

import (
	"time"

	"github.com/ticketzen/go-web-gateway/users"
)

type Session struct {
	User         *users.User
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time // Access token expiry as read from its claims; informational
}

// Authenticated reports whether the session carries a usable identity.
// A refresh token alone (rehydrated from storage) is not authenticated;
// the bootstrapper must first exchange it for an access token.
func (s Session) Authenticated() bool {
	return s.User != nil && s.AccessToken != ""
}
