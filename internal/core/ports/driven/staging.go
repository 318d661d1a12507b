package driven

import (
	"context"

	"github.com/JuanMendez11/rag-fastapi-challenge/internal/core/domain"
)

// StagingStore holds raw uploaded documents pending embedding generation.
// Staged documents are ephemeral: the store's lifetime is the process
// lifetime and contents are lost on restart. This is a deliberate
// simplification, not a correctness requirement.
type StagingStore interface {
	// Put stages a document by ID.
	Put(ctx context.Context, doc domain.Document) error

	// Get retrieves a staged document by ID.
	// Returns domain.ErrNotFound when the ID is unknown.
	Get(ctx context.Context, id string) (*domain.Document, error)
}
