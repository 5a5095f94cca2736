package auth

import (
	"context"
	"net/http"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/ticketzen/go-web-gateway/backend"
	"github.com/ticketzen/go-web-gateway/session"
	"github.com/ticketzen/go-web-gateway/users"
)

// Service ties the store, the coordinator and the pipeline together into
// the session lifecycle: login, logout, silent bootstrap.
type Service struct {
	store       session.Store
	backend     *backend.Client
	coordinator *Coordinator
	httpClient  *http.Client

	restoreOnce sync.Once
	restored    bool
}

type ServiceOption func(*Service)

// WithBaseTransport sets the transport underneath the request pipeline
// (primarily for tests).
func WithBaseTransport(base http.RoundTripper) ServiceOption {
	return func(s *Service) {
		s.httpClient.Transport = NewTransport(s.store, s.coordinator, base)
	}
}

func NewService(store session.Store, backendClient *backend.Client, options ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("[NewService] store is required")
	}
	if backendClient == nil {
		return nil, errors.New("[NewService] backend client is required")
	}

	coordinator := NewCoordinator(store, backendClient)
	s := &Service{
		store:       store,
		backend:     backendClient,
		coordinator: coordinator,
		httpClient:  &http.Client{Transport: NewTransport(store, coordinator, nil)},
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Client returns the pipeline-wrapped HTTP client for authenticated
// resource calls.
func (s *Service) Client() *http.Client {
	return s.httpClient
}

// Session returns the current session snapshot.
func (s *Service) Session() session.Session {
	return s.store.Get()
}

// Login authenticates with the backend and replaces the session. A failed
// login leaves the existing session untouched.
func (s *Service) Login(ctx context.Context, email, password string) (*users.User, error) {
	user, tok, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Login]")
	}
	s.store.SetAuth(user, tok.AccessToken, tok.RefreshToken)
	return user, nil
}

// Logout invalidates the refresh token server-side (best effort) and resets
// to guest.
func (s *Service) Logout(ctx context.Context) {
	sess := s.store.Get()
	if sess.RefreshToken != "" {
		if err := s.backend.Logout(ctx, sess.RefreshToken); err != nil {
			log.Debug().Err(err).Msg("server-side logout failed")
		}
	}
	s.store.Clear()
}

// Restore attempts silent re-authentication from a persisted refresh token.
// It runs the exchange at most once per process lifetime; later calls
// return the settled outcome. "Not logged in" is an expected steady state,
// so failure is silent: the caller only learns guest vs authenticated.
func (s *Service) Restore(ctx context.Context) bool {
	s.restoreOnce.Do(func() {
		s.restored = s.restore(ctx)
	})
	return s.restored
}

func (s *Service) restore(ctx context.Context) bool {
	sess := s.store.Get()
	if sess.Authenticated() {
		return true
	}
	if sess.RefreshToken == "" {
		// Cold start as guest. Drop any stale cached identity.
		s.store.Clear()
		return false
	}

	// Shares the single-flight guarantee with request-triggered refreshes:
	// a request faulting during bootstrap joins this exchange instead of
	// double-spending the refresh token.
	tok, err := s.coordinator.Refresh(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("session restore failed, continuing as guest")
		return false
	}

	user, err := s.backend.CurrentUser(ctx, tok.AccessToken)
	if err != nil {
		log.Debug().Err(err).Msg("user fetch after restore failed, continuing as guest")
		s.store.Clear()
		return false
	}

	s.store.SetAuth(user, tok.AccessToken, tok.RefreshToken)
	return true
}
