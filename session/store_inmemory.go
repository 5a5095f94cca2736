package session

import (
	"sync"

	"github.com/ticketzen/go-web-gateway/token"
	"github.com/ticketzen/go-web-gateway/users"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is the process-wide volatile token store.
type MemoryStore struct {
	lock    sync.RWMutex
	session Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (ms *MemoryStore) Get() Session {
	ms.lock.RLock()
	defer ms.lock.RUnlock()
	return ms.session
}

func (ms *MemoryStore) SetAuth(user *users.User, accessToken, refreshToken string) {
	ms.lock.Lock()
	defer ms.lock.Unlock()

	if refreshToken == "" {
		refreshToken = ms.session.RefreshToken
	}
	ms.session = Session{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    token.Expiry(accessToken),
	}
}

func (ms *MemoryStore) SetAccessToken(accessToken string) {
	ms.lock.Lock()
	defer ms.lock.Unlock()

	ms.session.AccessToken = accessToken
	ms.session.ExpiresAt = token.Expiry(accessToken)
}

func (ms *MemoryStore) Clear() {
	ms.lock.Lock()
	defer ms.lock.Unlock()

	ms.session = Session{}
}

// setRestored seeds a rehydrated session: cached user and refresh token
// only, no access token. Used by FileStore on load.
func (ms *MemoryStore) setRestored(user *users.User, refreshToken string) {
	ms.lock.Lock()
	defer ms.lock.Unlock()

	ms.session = Session{User: user, RefreshToken: refreshToken}
}
