package auth

import (
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/ticketzen/go-web-gateway/session"
)

var _ http.RoundTripper = (*Transport)(nil)

// Transport is the request pipeline: it attaches the current access token as
// a bearer credential and, on a 401, obtains a refreshed token from the
// coordinator and redispatches exactly once. A second 401 propagates to the
// caller; there is never a third attempt.
type Transport struct {
	base        http.RoundTripper
	store       session.Store
	coordinator *Coordinator
}

// NewTransport wraps base (http.DefaultTransport when nil).
func NewTransport(store session.Store, coordinator *Coordinator, base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{
		base:        base,
		store:       store,
		coordinator: coordinator,
	}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	sess := t.store.Get()

	resp, err := t.base.RoundTrip(withBearer(req, sess.AccessToken))
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	if t.store.Get().RefreshToken == "" {
		// Nothing to refresh with; the session is over.
		t.store.Clear()
		return resp, nil
	}

	if req.Body != nil && req.GetBody == nil {
		// The body cannot be replayed, so the retry would be corrupt.
		return resp, nil
	}

	if !sess.ExpiresAt.IsZero() {
		log.Debug().
			Str("path", req.URL.Path).
			Dur("expired_for", time.Since(sess.ExpiresAt)).
			Msg("access token rejected, refreshing")
	}

	tok, refreshErr := t.coordinator.Refresh(req.Context())
	if refreshErr != nil {
		// Session already cleared by the coordinator; the original 401
		// propagates so the caller sees the request-level failure.
		return resp, nil
	}

	drain(resp)

	retry := withBearer(req, tok.AccessToken)
	if req.GetBody != nil {
		body, bodyErr := req.GetBody()
		if bodyErr != nil {
			return nil, bodyErr
		}
		retry.Body = body
	}
	return t.base.RoundTrip(retry)
}

// withBearer clones req (RoundTrippers must not mutate their input) and
// attaches the access token when one is present; otherwise the request goes
// out unauthenticated.
func withBearer(req *http.Request, accessToken string) *http.Request {
	clone := req.Clone(req.Context())
	if accessToken != "" {
		clone.Header.Set("Authorization", "Bearer "+accessToken)
	}
	return clone
}

// drain releases the superseded response so the connection can be reused
// for the retry.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
