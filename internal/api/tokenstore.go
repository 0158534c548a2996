package api

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// TokenStore persists the bearer token, standing in for the browser's local
// storage. It is safe for concurrent use; the client reads it per request
// and clears it on a 401.
type TokenStore struct {
	mu   sync.Mutex
	fs   afero.Fs
	path string
}

// NewTokenStore creates a token store over the given filesystem. Tests pass
// an afero.MemMapFs.
func NewTokenStore(fsys afero.Fs, path string) *TokenStore {
	return &TokenStore{fs: fsys, path: path}
}

// Load returns the stored token, or "" when none is present.
func (s *TokenStore) Load() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Save writes the token with owner-only permissions.
func (s *TokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	dir := filepath.Dir(s.path)
	if dir != "." && dir != "" {
		if err := s.fs.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create token directory: %w", err)
		}
	}
	if err := afero.WriteFile(s.fs, s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// Clear removes the stored token. Clearing an absent token is a no-op.
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fs.Remove(s.path); err != nil {
		if _, statErr := s.fs.Stat(s.path); statErr != nil {
			return nil
		}
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}
