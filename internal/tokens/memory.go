package tokens

import (
	"context"
	"sync"

	"bonnetje/internal/core"
)

// MemoryStore keeps the pair in process memory. It is the default backend
// and the one tests inject; a restart forgets the session.
type MemoryStore struct {
	mu   sync.Mutex
	pair *core.TokenPair
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (*core.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pair == nil {
		return nil, nil
	}
	cp := *s.pair
	return &cp, nil
}

func (s *MemoryStore) Save(ctx context.Context, pair *core.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *pair
	s.pair = &cp
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = nil
	return nil
}
