package session

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/ticketzen/go-web-gateway/users"
)

var _ Store = (*FileStore)(nil)

// persistedSession is the durable subset of a session. The access token is
// intentionally absent: leaking this file must never yield a live bearer
// credential, and its absence forces a fresh exchange on every cold start.
type persistedSession struct {
	User         *users.User `json:"user,omitempty"`
	RefreshToken string      `json:"refresh_token,omitempty"`
}

// FileStore is a MemoryStore whose refresh token (and last-known user)
// survive process restarts via a single namespaced JSON file.
type FileStore struct {
	memory *MemoryStore
	path   string
}

// NewFileStore loads any previously persisted session from the named file
// under dataFolder. A missing or unreadable file simply starts as guest.
func NewFileStore(dataFolder, fileName string) (*FileStore, error) {
	if err := os.MkdirAll(dataFolder, 0o700); err != nil {
		return nil, errors.Wrap(err, "[NewFileStore] create data folder")
	}

	fs := &FileStore{
		memory: NewMemoryStore(),
		path:   filepath.Join(dataFolder, fileName),
	}
	fs.load()
	return fs, nil
}

func (fs *FileStore) Get() Session {
	return fs.memory.Get()
}

func (fs *FileStore) SetAuth(user *users.User, accessToken, refreshToken string) {
	fs.memory.SetAuth(user, accessToken, refreshToken)
	fs.persist()
}

func (fs *FileStore) SetAccessToken(accessToken string) {
	// Volatile only, nothing to persist.
	fs.memory.SetAccessToken(accessToken)
}

func (fs *FileStore) Clear() {
	fs.memory.Clear()
	_ = os.Remove(fs.path)
}

func (fs *FileStore) load() {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		return
	}
	var persisted persistedSession
	if err := json.Unmarshal(data, &persisted); err != nil {
		return
	}
	if persisted.RefreshToken == "" {
		return
	}
	fs.memory.setRestored(persisted.User, persisted.RefreshToken)
}

func (fs *FileStore) persist() {
	sess := fs.memory.Get()
	data, err := json.Marshal(persistedSession{
		User:         sess.User,
		RefreshToken: sess.RefreshToken,
	})
	if err != nil {
		return
	}
	_ = os.WriteFile(fs.path, data, 0o600)
}
