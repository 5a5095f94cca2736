package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/ticketzen/go-web-gateway/auth"
	"github.com/ticketzen/go-web-gateway/backend"
	"github.com/ticketzen/go-web-gateway/session"
	"github.com/ticketzen/go-web-gateway/users"
)

func testUser() *users.User {
	return &users.User{ID: "user-1", Email: "awa.kone@example.com", Role: users.RoleTraveler}
}

func seededStore(accessToken, refreshToken string) *session.MemoryStore {
	store := session.NewMemoryStore()
	store.SetAuth(testUser(), accessToken, refreshToken)
	return store
}

func TestConcurrentRefreshPerformsSingleExchange(t *testing.T) {
	var refreshCalls int32

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/refresh/", r.URL.Path)
		atomic.AddInt32(&refreshCalls, 1)
		time.Sleep(50 * time.Millisecond) // Window for callers to pile up
		json.NewEncoder(w).Encode(map[string]string{"access": "access-2", "refresh": "refresh-2"})
	}))
	defer ts.Close()

	store := seededStore("access-1", "refresh-1")
	coordinator := auth.NewCoordinator(store, backend.New(ts.URL))

	const callers = 8
	tokens := make([]string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok, err := coordinator.Refresh(context.Background())
			require.NoError(t, err)
			tokens[i] = tok.AccessToken
		}(i)
	}
	wg.Wait()

	require.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls))
	for _, tok := range tokens {
		require.Equal(t, "access-2", tok)
	}

	sess := store.Get()
	require.Equal(t, "access-2", sess.AccessToken)
	require.Equal(t, "refresh-2", sess.RefreshToken, "rotated refresh token stored")
}

func TestRefreshFailureSharedAndClearsSession(t *testing.T) {
	var refreshCalls int32

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Token is invalid or expired"})
	}))
	defer ts.Close()

	store := seededStore("access-1", "refresh-1")
	coordinator := auth.NewCoordinator(store, backend.New(ts.URL))

	const callers = 5
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = coordinator.Refresh(context.Background())
		}(i)
	}
	wg.Wait()

	require.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls))
	for _, err := range errs {
		require.ErrorIs(t, err, auth.ErrSessionExpired)
	}
	require.False(t, store.Get().Authenticated())
	require.Empty(t, store.Get().RefreshToken)
}

func TestRefreshWithoutTokenFailsWithoutNetworkCall(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer ts.Close()

	store := session.NewMemoryStore()
	coordinator := auth.NewCoordinator(store, backend.New(ts.URL))

	_, err := coordinator.Refresh(context.Background())
	require.ErrorIs(t, err, auth.ErrNoRefreshToken)
	require.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestSequentialRefreshesExchangeEachTime(t *testing.T) {
	var refreshCalls int32

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&refreshCalls, 1)
		json.NewEncoder(w).Encode(map[string]string{"access": "access-" + string(rune('0'+n))})
	}))
	defer ts.Close()

	store := seededStore("access-0", "refresh-1")
	coordinator := auth.NewCoordinator(store, backend.New(ts.URL))

	_, err := coordinator.Refresh(context.Background())
	require.NoError(t, err)
	_, err = coordinator.Refresh(context.Background())
	require.NoError(t, err)

	require.Equal(t, int32(2), atomic.LoadInt32(&refreshCalls))
	// Refresh response without rotation keeps the existing refresh token.
	require.Equal(t, "refresh-1", store.Get().RefreshToken)
}

func TestAbandonedCallerDoesNotPoisonWaiters(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		json.NewEncoder(w).Encode(map[string]string{"access": "access-2"})
	}))
	defer ts.Close()

	store := seededStore("access-1", "refresh-1")
	coordinator := auth.NewCoordinator(store, backend.New(ts.URL))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_, _ = coordinator.Refresh(ctx) // First caller abandons mid-flight
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	done := make(chan error, 1)
	go func() {
		_, err := coordinator.Refresh(context.Background())
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	close(release)

	select {
	case err := <-done:
		require.NoError(t, err)
		require.Equal(t, "access-2", store.Get().AccessToken)
	case <-time.After(2 * time.Second):
		t.Fatal("waiter never resumed")
	}
}
