package server

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/rs/zerolog/log"
)

// NewBackendProxy forwards requests to the ticketing backend as-is,
// Authorization header included. The browser talks to one origin; the
// backend stays private.
func NewBackendProxy(target *url.URL) http.Handler {
	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Error().Err(err).Str("path", r.URL.Path).Msg("backend proxy failed")
			http.Error(w, "backend unavailable", http.StatusBadGateway)
		},
	}
	return proxy
}

// ProxyHandler strips the public /api/v1 prefix before handing off to the
// proxy; the backend URL already carries its own base path.
func (s *Server) ProxyHandler() http.HandlerFunc {
	stripped := http.StripPrefix("/api/v1", s.proxy)
	return func(w http.ResponseWriter, r *http.Request) {
		stripped.ServeHTTP(w, r)
	}
}
