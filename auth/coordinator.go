// Package auth implements the authenticated-session core: the refresh
// coordinator, the request pipeline and the session bootstrapper, all
// working against a session.Store and the backend client.
package auth

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/ticketzen/go-web-gateway/backend"
	"github.com/ticketzen/go-web-gateway/session"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const refreshKey = "refresh"

// Coordinator guarantees at most one refresh exchange in flight at a time.
// Callers that arrive while an exchange is running wait for it and observe
// the same outcome: the same new token, or the same error. Refresh tokens
// rotate on use, so a duplicate exchange would invalidate the in-flight one
// and spuriously fail one of the two callers.
type Coordinator struct {
	store   session.Store
	backend *backend.Client
	group   singleflight.Group
}

func NewCoordinator(store session.Store, backendClient *backend.Client) *Coordinator {
	return &Coordinator{
		store:   store,
		backend: backendClient,
	}
}

// Refresh exchanges the stored refresh token for a new access token,
// updating the store before any waiter resumes. On failure the store is
// cleared (full logout); the failure is not retried automatically.
func (c *Coordinator) Refresh(ctx context.Context) (*oauth2.Token, error) {
	// The exchange must not die with the first caller: waiters queued
	// behind it depend on its completion.
	exchangeCtx := context.WithoutCancel(ctx)

	v, err, shared := c.group.Do(refreshKey, func() (any, error) {
		return c.exchange(exchangeCtx)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debug().Msg("refresh outcome shared with concurrent caller")
	}
	return v.(*oauth2.Token), nil
}

func (c *Coordinator) exchange(ctx context.Context) (*oauth2.Token, error) {
	sess := c.store.Get()
	if sess.RefreshToken == "" {
		c.store.Clear()
		return nil, ErrNoRefreshToken
	}

	tok, err := c.backend.Refresh(ctx, sess.RefreshToken)
	if err != nil {
		// A rotating refresh token cannot be trusted after a failed
		// exchange; demote to guest and let the UI re-authenticate.
		c.store.Clear()
		return nil, errors.Wrap(err, "[Coordinator.Refresh]")
	}

	if sess.User != nil {
		c.store.SetAuth(sess.User, tok.AccessToken, tok.RefreshToken)
	} else {
		c.store.SetAccessToken(tok.AccessToken)
	}
	return tok, nil
}
