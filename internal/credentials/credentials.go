package credentials

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

var ErrNotFound = errors.New("no stored credentials")

// payload mirrors the persisted keys: "token" and "user".
type payload struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user,omitempty"`
}

// Store persists the session token and user snapshot to a single file. It is
// shared process-wide: the session store writes it on login/logout and the API
// client reads the token on every request and clears it on 401.
type Store struct {
	path string

	mu sync.Mutex
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Save(token string, user json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(payload{Token: token, User: user})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Load returns the persisted token and user snapshot. ErrNotFound means no
// credentials are stored; a corrupt file is treated the same way after being
// removed, so a bad write never wedges the client.
func (s *Store) Load() (string, json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", nil, ErrNotFound
	}

	var p payload
	if err := json.Unmarshal(data, &p); err != nil || p.Token == "" {
		_ = os.Remove(s.path)
		return "", nil, ErrNotFound
	}
	return p.Token, p.User, nil
}

// Token returns the persisted token, or "" when anonymous.
func (s *Store) Token() string {
	token, _, err := s.Load()
	if err != nil {
		return ""
	}
	return token
}

// Clear is idempotent: clearing absent credentials is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
