package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	zlog "github.com/rs/zerolog/log"
	"github.com/ticketzen/go-web-gateway/backend"
	"github.com/ticketzen/go-web-gateway/chat"
	"github.com/ticketzen/go-web-gateway/internal/config"
)

// ChatRelay is what the chat handler needs from the streaming relay.
type ChatRelay interface {
	Converse(ctx context.Context, message string, history []chat.Turn) *chat.Stream
}

type Server struct {
	env    string // Environment (e.g., "DEV", "production")
	mux    *http.ServeMux
	routes []string
	config config.Config

	backend *backend.Client
	relay   ChatRelay // nil when the provider is not configured
	proxy   http.Handler
}

type Option func(*Server)

// WithRelay overrides the chat relay (primarily for tests).
func WithRelay(relay ChatRelay) Option {
	return func(s *Server) {
		s.relay = relay
	}
}

func New(cfg config.Config, options ...Option) (*Server, error) {
	backendURL, err := url.Parse(cfg.GetBackendURL())
	if err != nil {
		return nil, fmt.Errorf("[Server New] invalid backend URL: %w", err)
	}

	s := &Server{
		mux:     http.NewServeMux(),
		config:  cfg,
		env:     cfg.GetEnv(),
		backend: backend.New(cfg.GetBackendURL()),
		proxy:   NewBackendProxy(backendURL),
	}

	relay, err := chat.NewGeminiRelay(context.Background(), cfg)
	if err != nil {
		// The widget degrades to the fallback message; everything else
		// keeps working.
		zlog.Warn().Err(err).Msg("chat relay unavailable")
	} else {
		s.relay = relay
	}

	for _, opt := range options {
		opt(s)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}

// cookieSecure reports whether the refresh cookie should be marked Secure.
// DEV runs over plain HTTP.
func (s *Server) cookieSecure() bool {
	return s.env != "DEV"
}
