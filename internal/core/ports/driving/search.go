package driving

import (
	"context"

	"github.com/JuanMendez11/rag-fastapi-challenge/internal/core/domain"
)

// SearchService provides semantic search over indexed chunks.
type SearchService interface {
	// Search returns up to limit chunks ranked by similarity to the
	// query. No confidence threshold is applied: all hits are returned.
	// A limit <= 0 uses the configured default.
	Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)
}
