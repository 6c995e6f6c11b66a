package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	appErrors "github.com/amirhzq/unit-media-api/pkg/errors"
)

// MemoryStore keeps encoded documents in process memory. It is the default
// backend for development and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get decodes the stored document into dest.
func (s *MemoryStore) Get(_ context.Context, key string, dest interface{}) error {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return appErrors.Clone(appErrors.ErrKeyNotFound, fmt.Sprintf("key %q not found", key))
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode value for %q: %w", key, err)
	}
	return nil
}

// Set replaces the document under key.
func (s *MemoryStore) Set(_ context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode value for %q: %w", key, err)
	}
	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
	return nil
}

// Delete removes the key if present.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}
