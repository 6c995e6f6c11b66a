package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	appErrors "github.com/amirhzq/unit-media-api/pkg/errors"
)

// FileStore persists one JSON file per key under a base directory. Writes go
// through a temp file and rename so a crashed write never leaves a truncated
// document behind.
type FileStore struct {
	mu      sync.Mutex
	baseDir string
}

// NewFileStore ensures the base directory exists and returns a handle.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		baseDir = "./data"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Get decodes the stored document into dest.
func (s *FileStore) Get(_ context.Context, key string, dest interface{}) error {
	s.mu.Lock()
	raw, err := os.ReadFile(s.path(key))
	s.mu.Unlock()
	if err != nil {
		if os.IsNotExist(err) {
			return appErrors.Clone(appErrors.ErrKeyNotFound, fmt.Sprintf("key %q not found", key))
		}
		return fmt.Errorf("read value for %q: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode value for %q: %w", key, err)
	}
	return nil
}

// Set replaces the document under key.
func (s *FileStore) Set(_ context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode value for %q: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write value for %q: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("commit value for %q: %w", key, err)
	}
	return nil
}

// Delete removes the key if present.
func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete value for %q: %w", key, err)
	}
	return nil
}

func (s *FileStore) path(key string) string {
	// Keys are internal constants, but sanitize anyway so a hostile key can
	// never escape the base directory.
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
	return filepath.Join(s.baseDir, safe+".json")
}
