package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"nasauth/internal/domain"
	"nasauth/internal/util/memzero"
)

const sessionFilename = "session.enc"

// SessionFileStore persists the current appliance session to disk,
// sealed under a local passphrase.
type SessionFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewSessionFileStore returns a SessionFileStore rooted at dir. The
// directory is created on first save.
func NewSessionFileStore(dir string) *SessionFileStore {
	return &SessionFileStore{dir: dir}
}

func (s *SessionFileStore) path() string {
	return filepath.Join(s.dir, sessionFilename)
}

// SaveSession seals session under passphrase and writes it with mode
// 0600, replacing any previous session.
func (s *SessionFileStore) SaveSession(passphrase string, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	defer memzero.Zero(raw)

	blob, err := seal(passphrase, raw)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path(), blob, 0o600)
}

// LoadSession retrieves the stored session. The second return value
// reports whether a session file exists.
func (s *SessionFileStore) LoadSession(passphrase string) (domain.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := os.ReadFile(s.path())
	if errors.Is(err, os.ErrNotExist) {
		return domain.Session{}, false, nil
	}
	if err != nil {
		return domain.Session{}, false, err
	}

	raw, err := unseal(passphrase, blob)
	if err != nil {
		return domain.Session{}, false, err
	}
	defer memzero.Zero(raw)

	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return domain.Session{}, false, err
	}
	return session, true, nil
}

// ClearSession removes the stored session. Clearing an absent session
// is not an error.
func (s *SessionFileStore) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Compile-time assertion that SessionFileStore implements domain.SessionStore.
var _ domain.SessionStore = (*SessionFileStore)(nil)
