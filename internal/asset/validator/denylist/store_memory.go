package denylist

import (
	"context"
	"sync"

	id "assetgate/pkg/domain"
)

// InMemoryStore implements RestrictedStore with a mutex-protected set.
// Single-process only; for shared deployments use RedisStore.
type InMemoryStore struct {
	mu         sync.RWMutex
	restricted map[id.Address]bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{restricted: make(map[id.Address]bool)}
}

func (s *InMemoryStore) IsRestricted(_ context.Context, holder id.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.restricted[holder], nil
}

func (s *InMemoryStore) Restrict(_ context.Context, holder id.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restricted[holder] = true
	return nil
}

func (s *InMemoryStore) Clear(_ context.Context, holder id.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.restricted, holder)
	return nil
}
