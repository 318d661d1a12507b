// Package memory provides an in-memory vector store using brute-force
// cosine distance. Intended for tests and ephemeral runs; production
// deployments use the SQLite-backed store.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/JuanMendez11/rag-fastapi-challenge/internal/core/domain"
	"github.com/JuanMendez11/rag-fastapi-challenge/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is an in-memory implementation of driven.VectorStore.
// Safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	chunks map[string]domain.Chunk
}

// NewStore creates a new in-memory vector store.
func NewStore() *Store {
	return &Store{
		chunks: make(map[string]domain.Chunk),
	}
}

// Upsert stores a chunk with its embedding, replacing any prior entry
// with the same ID.
func (s *Store) Upsert(_ context.Context, chunk domain.Chunk) error {
	if len(chunk.Embedding) == 0 {
		return fmt.Errorf("chunk %s has no embedding", chunk.ID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks[chunk.ID] = chunk
	return nil
}

// Query returns up to k chunks ordered by ascending cosine distance.
func (s *Store) Query(_ context.Context, embedding []float32, k int) ([]domain.Retrieval, error) {
	if k <= 0 {
		return []domain.Retrieval{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]domain.Retrieval, 0, len(s.chunks))
	for _, chunk := range s.chunks {
		if len(chunk.Embedding) != len(embedding) {
			continue
		}
		results = append(results, domain.Retrieval{
			Chunk:    chunk,
			Distance: CosineDistance(embedding, chunk.Embedding),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// DeleteByDocument removes all chunks belonging to a document.
func (s *Store) DeleteByDocument(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, chunk := range s.chunks {
		if chunk.DocumentID == documentID {
			delete(s.chunks, id)
		}
	}
	return nil
}

// Count returns the number of stored chunks.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

// CosineDistance computes 1 minus the cosine similarity of two vectors.
// A zero vector yields the maximum useful distance of 1.
func CosineDistance(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}
