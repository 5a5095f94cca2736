package auth

import "github.com/ticketzen/go-web-gateway/backend"

// Re-exported sentinels so callers of this package do not need to know
// which layer classified the failure.
var (
	ErrInvalidCredentials = backend.ErrInvalidCredentials
	ErrSessionExpired     = backend.ErrSessionExpired
	ErrNoRefreshToken     = backend.ErrNoRefreshToken
)
