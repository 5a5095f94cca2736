package session

import "github.com/ticketzen/go-web-gateway/users"

// Store is the single mutable shared resource of the auth core. Mutations
// are synchronous: a Get following any mutation observes it.
//
// Writers are the refresh coordinator, the session bootstrapper and explicit
// login/logout. Everything else only reads.
type Store interface {
	Get() Session

	// SetAuth replaces the session atomically. An empty refreshToken keeps
	// the current one (a refresh exchange does not always rotate).
	SetAuth(user *users.User, accessToken, refreshToken string)

	// SetAccessToken updates only the access token. Used mid-bootstrap,
	// before the user identity has been re-fetched.
	SetAccessToken(accessToken string)

	// Clear resets to guest state.
	Clear()
}
