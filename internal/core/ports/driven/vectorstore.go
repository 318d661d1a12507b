package driven

import (
	"context"

	"github.com/JuanMendez11/rag-fastapi-challenge/internal/core/domain"
)

// VectorStore persists chunk vectors with their text and metadata and
// supports nearest-neighbour queries by cosine distance.
//
// The distance metric is fixed at store-creation time; changing it for an
// existing store is not supported.
type VectorStore interface {
	// Upsert stores a chunk with its embedding. Idempotent by chunk ID:
	// re-upserting the same ID replaces the prior entry.
	Upsert(ctx context.Context, chunk domain.Chunk) error

	// Query returns up to k chunks nearest to the given embedding,
	// ordered by ascending cosine distance (most similar first).
	// Returns an empty slice when the store is empty.
	Query(ctx context.Context, embedding []float32, k int) ([]domain.Retrieval, error)

	// DeleteByDocument removes all chunks belonging to a document.
	// Used as a compensating action when embedding generation fails
	// part-way through a document.
	DeleteByDocument(ctx context.Context, documentID string) error

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
