// Package memory provides an in-memory BlobStore used when no database
// is configured, and by tests.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/vietddude/arbstats/internal/infra/storage"
)

type Store struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewStore() *Store {
	return &Store{blobs: make(map[string][]byte)}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	s.blobs[key] = stored
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, key)
	return nil
}

func (s *Store) DeleteAll(ctx context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.blobs {
		if strings.HasPrefix(key, prefix) {
			delete(s.blobs, key)
		}
	}
	return nil
}

// Len reports the number of stored blobs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
