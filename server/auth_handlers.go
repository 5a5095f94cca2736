package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/ticketzen/go-web-gateway/backend"
)

const contentTypeJSON = "application/json; charset=utf-8"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginHandler proxies credentials to the backend. On success the refresh
// token moves into an HttpOnly cookie and is stripped from the response
// body, so script-readable state never holds a long-lived credential.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		user, tok, err := s.backend.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeBackendError(w, err)
			return
		}

		s.setRefreshCookie(w, tok.RefreshToken)

		writeJSON(w, http.StatusOK, map[string]any{
			"user": user,
			"tokens": map[string]string{
				"access": tok.AccessToken,
				// Refresh token deliberately omitted
			},
		})
	}
}

// RefreshHandler exchanges the cookie-held refresh token for a new access
// token, rotating the cookie when the backend rotates the token.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(s.config.GetRefreshCookieName())
		if err != nil || cookie.Value == "" {
			writeJSONError(w, http.StatusUnauthorized, "No refresh token")
			return
		}

		tok, err := s.backend.Refresh(r.Context(), cookie.Value)
		if err != nil {
			writeBackendError(w, err)
			return
		}

		if tok.RefreshToken != "" {
			s.setRefreshCookie(w, tok.RefreshToken)
		}

		writeJSON(w, http.StatusOK, map[string]string{"access": tok.AccessToken})
	}
}

// LogoutHandler invalidates the refresh token server-side (best effort) and
// always clears the cookie.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(s.config.GetRefreshCookieName()); err == nil && cookie.Value != "" {
			if err := s.backend.Logout(r.Context(), cookie.Value); err != nil {
				log.Debug().Err(err).Msg("server-side logout failed")
			}
		}

		s.clearRefreshCookie(w)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
	}
}

func (s *Server) setRefreshCookie(w http.ResponseWriter, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetRefreshCookieName(),
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   int(s.config.GetRefreshCookieMaxAge().Seconds()),
		HttpOnly: true,
		Secure:   s.cookieSecure(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetRefreshCookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure(),
		SameSite: http.SameSiteLaxMode,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Debug().Err(err).Msg("write response failed")
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeBackendError passes backend failures through unmodified (validation
// messages belong to the caller) and maps everything else to a 502.
func writeBackendError(w http.ResponseWriter, err error) {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		body := map[string]any{}
		if apiErr.Message != "" {
			body["message"] = apiErr.Message
		}
		for field, messages := range apiErr.Fields {
			body[field] = messages
		}
		if len(body) == 0 {
			body["message"] = http.StatusText(apiErr.StatusCode)
		}
		writeJSON(w, apiErr.StatusCode, body)
		return
	}
	if errors.Is(err, backend.ErrInvalidCredentials) || errors.Is(err, backend.ErrSessionExpired) {
		writeJSONError(w, http.StatusUnauthorized, err.Error())
		return
	}
	log.Error().Err(err).Msg("backend unreachable")
	writeJSONError(w, http.StatusBadGateway, "backend unavailable")
}
