package config

import "time"

// SessionConfig covers the durable pieces of a session: the HttpOnly refresh
// cookie served by the gateway and the client-side token file used by SDK
// consumers. The access token itself is never persisted anywhere.
type SessionConfig interface {
	GetRefreshCookieName() string
	GetRefreshCookieMaxAge() time.Duration
	GetSessionFileName() string
}

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetRefreshCookieName() string {
	return "refresh_token"
}

func (Session) GetRefreshCookieMaxAge() time.Duration {
	return 7 * 24 * time.Hour
}

func (Session) GetSessionFileName() string {
	return "ticket-zen-auth.json"
}
