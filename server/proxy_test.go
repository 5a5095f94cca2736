package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ticketzen/go-web-gateway/internal/config"
	"github.com/ticketzen/go-web-gateway/server"
)

func TestProxyForwardsWithPrefixStripped(t *testing.T) {
	var gotPath, gotAuth, gotForwarded string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotForwarded = r.Header.Get("X-Forwarded-Host")
		json.NewEncoder(w).Encode(map[string]any{"count": 0, "results": []any{}})
	}))
	defer backend.Close()

	t.Setenv("BACKEND_URL", backend.URL)
	t.Setenv("GEMINI_API_KEY", "")
	s, err := server.New(config.New())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/trips/?departure_city=3", nil)
	req.Host = "tickets.example.com"
	req.Header.Set("Authorization", "Bearer access-1")
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "/trips/", gotPath)
	require.Equal(t, "Bearer access-1", gotAuth, "bearer passes through untouched")
	require.Equal(t, "tickets.example.com", gotForwarded)
}

func TestProxyUnreachableBackendIs502(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	backend.Close() // Refuse connections

	t.Setenv("BACKEND_URL", backend.URL)
	t.Setenv("GEMINI_API_KEY", "")
	s, err := server.New(config.New())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/trips/", nil))
	require.Equal(t, http.StatusBadGateway, rec.Code)
}
