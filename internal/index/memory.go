package index

import (
	"context"
	"fmt"
	"sync"

	"awsml-tutor/internal/model"
)

// MemoryStore keeps collections in process memory. Nothing survives a
// restart.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*CollectionInfo
	entries     map[string][]model.IndexEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: map[string]*CollectionInfo{},
		entries:     map[string][]model.IndexEntry{},
	}
}

func (s *MemoryStore) Collection(_ context.Context, name string) (*CollectionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.collections[name]
	if !ok {
		return nil, nil
	}
	copied := *info
	return &copied, nil
}

func (s *MemoryStore) EnsureCollection(_ context.Context, info CollectionInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.collections[info.Name]; ok {
		return checkCompatible(*existing, info)
	}
	s.collections[info.Name] = &info
	return nil
}

func (s *MemoryStore) Insert(_ context.Context, collection string, entries []model.IndexEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[collection]; !ok {
		return fmt.Errorf("collection %s does not exist", collection)
	}
	s.entries[collection] = append(s.entries[collection], entries...)
	return nil
}

func (s *MemoryStore) Count(_ context.Context, collection string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries[collection]), nil
}

func (s *MemoryStore) Search(_ context.Context, collection string, vector []float32, k int) ([]model.RetrievalResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return rankEntries(s.entries[collection], vector, k), nil
}

func (s *MemoryStore) Close() error { return nil }

func checkCompatible(existing, want CollectionInfo) error {
	if existing.Dimension != 0 && want.Dimension != 0 && existing.Dimension != want.Dimension {
		return fmt.Errorf("collection %s has dimension %d, got %d", existing.Name, existing.Dimension, want.Dimension)
	}
	if existing.EmbeddingModel != "" && want.EmbeddingModel != "" && existing.EmbeddingModel != want.EmbeddingModel {
		return fmt.Errorf("%w: collection %s uses %s, got %s",
			ErrEmbeddingMismatch, existing.Name, existing.EmbeddingModel, want.EmbeddingModel)
	}
	return nil
}
