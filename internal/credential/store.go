// Package credential provides access to the stored API token.
//
// The token is opaque to shelf: its presence means "logged in". Stores must
// degrade to "no token" when the backing medium is unavailable.
package credential

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Provider is the capability the session gate and detail controller use to
// read and clear the token. Get never fails; an unreadable store reads as "".
type Provider interface {
	Get() string
	Clear() error
}

// Writer is implemented by stores that can also persist a new token.
type Writer interface {
	Provider
	Set(token string) error
}

var (
	_ Writer = (*FileStore)(nil)
	_ Writer = (*MemoryStore)(nil)
)

// FileStore keeps the token in a single file. Every Get reads the file so a
// token written or removed by another process is seen on the next call.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by path. An empty path yields a store
// that is permanently unavailable.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: strings.TrimSpace(path)}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the trimmed token, or "" when the file is missing or unreadable.
func (s *FileStore) Get() string {
	if s == nil || s.path == "" {
		return ""
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Clear removes the token file. A missing file is not an error.
func (s *FileStore) Clear() error {
	if s == nil || s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// Set writes token with owner-only permissions.
func (s *FileStore) Set(token string) error {
	if s == nil || s.path == "" {
		return fmt.Errorf("token store unavailable")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token is empty")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// MemoryStore is an in-process store, safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore returns a store holding token.
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (s *MemoryStore) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Set(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token is empty")
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}
