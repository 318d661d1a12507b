// Package memory provides in-memory storage adapters.
package memory

import (
	"context"
	"sync"

	"github.com/JuanMendez11/rag-fastapi-challenge/internal/core/domain"
	"github.com/JuanMendez11/rag-fastapi-challenge/internal/core/ports/driven"
)

// Ensure StagingStore implements the interface.
var _ driven.StagingStore = (*StagingStore)(nil)

// StagingStore is an in-memory implementation of driven.StagingStore.
// Safe for concurrent use. No eviction, no persistence: contents live
// as long as the process.
type StagingStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
}

// NewStagingStore creates a new in-memory staging store.
func NewStagingStore() *StagingStore {
	return &StagingStore{
		documents: make(map[string]domain.Document),
	}
}

// Put stages a document by ID.
func (s *StagingStore) Put(_ context.Context, doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = doc
	return nil
}

// Get retrieves a staged document by ID.
func (s *StagingStore) Get(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// Len returns the number of staged documents.
func (s *StagingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents)
}
