package ledger

import (
	"context"
	"sync"
)

// MemoryStore keeps the persisted chain in process memory. It backs tests
// and ephemeral deployments; nothing survives a restart.
type MemoryStore struct {
	mu   sync.RWMutex
	recs []Record
}

// NewMemoryStore returns an empty store: Load reports ErrNotExist until the
// first Save.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.recs == nil {
		return nil, ErrNotExist
	}
	out := make([]Record, len(s.recs))
	copy(out, s.recs)
	return out, nil
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, recs []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = make([]Record, len(recs))
	copy(s.recs, recs)
	return nil
}
