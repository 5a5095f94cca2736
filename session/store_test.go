package session_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ticketzen/go-web-gateway/session"
	"github.com/ticketzen/go-web-gateway/users"
)

const sessionFileName = "ticket-zen-auth.json"

func testUser() *users.User {
	return &users.User{
		ID:    "user-1",
		Email: "awa.kone@example.com",
		Role:  users.RoleTraveler,
	}
}

func TestMemoryStoreSetAuthAndClear(t *testing.T) {
	store := session.NewMemoryStore()
	require.False(t, store.Get().Authenticated())

	store.SetAuth(testUser(), "access-1", "refresh-1")

	sess := store.Get()
	require.True(t, sess.Authenticated())
	require.Equal(t, "access-1", sess.AccessToken)
	require.Equal(t, "refresh-1", sess.RefreshToken)
	require.Equal(t, "user-1", sess.User.ID)

	store.Clear()
	sess = store.Get()
	require.False(t, sess.Authenticated())
	require.Empty(t, sess.AccessToken)
	require.Empty(t, sess.RefreshToken)
	require.Nil(t, sess.User)
}

func TestMemoryStoreSetAuthKeepsRefreshTokenWhenEmpty(t *testing.T) {
	store := session.NewMemoryStore()
	store.SetAuth(testUser(), "access-1", "refresh-1")

	// A refresh exchange does not always rotate the refresh token.
	store.SetAuth(testUser(), "access-2", "")

	sess := store.Get()
	require.Equal(t, "access-2", sess.AccessToken)
	require.Equal(t, "refresh-1", sess.RefreshToken)
}

func TestMemoryStoreSetAccessTokenOnly(t *testing.T) {
	store := session.NewMemoryStore()
	store.SetAccessToken("access-1")

	sess := store.Get()
	require.Equal(t, "access-1", sess.AccessToken)
	// No user yet: mid-bootstrap state, not authenticated.
	require.False(t, sess.Authenticated())
}

func TestFileStoreNeverPersistsAccessToken(t *testing.T) {
	folder := t.TempDir()
	store, err := session.NewFileStore(folder, sessionFileName)
	require.NoError(t, err)

	store.SetAuth(testUser(), "super-secret-access", "refresh-1")

	raw, err := os.ReadFile(filepath.Join(folder, sessionFileName))
	require.NoError(t, err)
	require.Contains(t, string(raw), "refresh-1")
	require.Contains(t, string(raw), "awa.kone@example.com")
	require.NotContains(t, string(raw), "super-secret-access")
}

func TestFileStoreRehydratesWithoutAccessToken(t *testing.T) {
	folder := t.TempDir()

	store, err := session.NewFileStore(folder, sessionFileName)
	require.NoError(t, err)
	store.SetAuth(testUser(), "access-1", "refresh-1")

	// Simulate a process restart.
	reloaded, err := session.NewFileStore(folder, sessionFileName)
	require.NoError(t, err)

	sess := reloaded.Get()
	require.Equal(t, "refresh-1", sess.RefreshToken)
	require.NotNil(t, sess.User)
	require.Empty(t, sess.AccessToken)
	require.False(t, sess.Authenticated(), "rehydrated session must force a fresh exchange")
}

func TestFileStoreClearRemovesFile(t *testing.T) {
	folder := t.TempDir()
	store, err := session.NewFileStore(folder, sessionFileName)
	require.NoError(t, err)

	store.SetAuth(testUser(), "access-1", "refresh-1")
	store.Clear()

	_, err = os.Stat(filepath.Join(folder, sessionFileName))
	require.True(t, os.IsNotExist(err))

	reloaded, err := session.NewFileStore(folder, sessionFileName)
	require.NoError(t, err)
	require.False(t, reloaded.Get().Authenticated())
	require.Empty(t, reloaded.Get().RefreshToken)
}

func TestFileStoreIgnoresCorruptFile(t *testing.T) {
	folder := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(folder, sessionFileName), []byte("{not json"), 0o600))

	store, err := session.NewFileStore(folder, sessionFileName)
	require.NoError(t, err)
	require.False(t, store.Get().Authenticated())
}
