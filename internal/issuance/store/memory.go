// Package store provides the asset registry backends. The registry is an
// append-only catalog: records are created once and never updated or deleted.
package store

import (
	"context"
	"sync"

	"assetgate/internal/issuance/models"
	id "assetgate/pkg/domain"
	"assetgate/pkg/platform/sentinel"
)

// MemoryStore is the in-memory registry backend. It preserves issuance order
// for List.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[id.AssetID]models.AssetRecord
	order   []id.AssetID
}

func NewMemory() *MemoryStore {
	return &MemoryStore{records: make(map[id.AssetID]models.AssetRecord)}
}

func (s *MemoryStore) Create(_ context.Context, record models.AssetRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.ID]; ok {
		return sentinel.ErrConflict
	}
	s.records[record.ID] = record
	s.order = append(s.order, record.ID)
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, assetID id.AssetID) (models.AssetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[assetID]
	if !ok {
		return models.AssetRecord{}, sentinel.ErrNotFound
	}
	return record, nil
}

func (s *MemoryStore) List(_ context.Context) ([]models.AssetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]models.AssetRecord, 0, len(s.order))
	for _, assetID := range s.order {
		records = append(records, s.records[assetID])
	}
	return records, nil
}
