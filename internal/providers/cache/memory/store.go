// Package memory is the ephemeral cache backend. Entries live for the
// lifetime of the process.
package memory

import (
	"context"
	"sync"

	"github.com/crmarques/srvinv/cache"
)

var _ cache.Store = (*Store)(nil)

// Store guards only its map. It does not serialize refreshes.
type Store struct {
	mu      sync.RWMutex
	entries map[string]cache.Entry
}

func NewStore() *Store {
	return &Store{entries: map[string]cache.Entry{}}
}

func (s *Store) Load(_ context.Context, collection string) (cache.Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[collection]
	if !ok {
		return cache.Entry{}, false, nil
	}
	entry.Snapshot = entry.Snapshot.Clone()
	return entry, true, nil
}

func (s *Store) Save(_ context.Context, collection string, entry cache.Entry) error {
	entry.Snapshot = entry.Snapshot.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[collection] = entry
	return nil
}
