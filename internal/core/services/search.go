package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/JuanMendez11/rag-fastapi-challenge/internal/core/domain"
	"github.com/JuanMendez11/rag-fastapi-challenge/internal/core/ports/driven"
	"github.com/JuanMendez11/rag-fastapi-challenge/internal/core/ports/driving"
	"github.com/JuanMendez11/rag-fastapi-challenge/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// DefaultSearchLimit is the number of results returned when the caller
// does not specify a limit.
const DefaultSearchLimit = 3

// SearchService provides semantic search over indexed chunks.
type SearchService struct {
	vectors      driven.VectorStore
	embedder     driven.EmbeddingService
	defaultLimit int
}

// NewSearchService creates a new search service. A defaultLimit <= 0
// falls back to DefaultSearchLimit.
func NewSearchService(
	vectors driven.VectorStore,
	embedder driven.EmbeddingService,
	defaultLimit int,
) *SearchService {
	if defaultLimit <= 0 {
		defaultLimit = DefaultSearchLimit
	}
	return &SearchService{
		vectors:      vectors,
		embedder:     embedder,
		defaultLimit: defaultLimit,
	}
}

// Search returns up to limit chunks ranked by similarity to the query.
// Similarity is the clamped complement of cosine distance; no confidence
// threshold is applied, so low-scoring hits are returned as well.
func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.SearchResult{}, nil
	}

	if limit <= 0 {
		limit = s.defaultLimit
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		logger.Error("Query embedding failed: %v", err)
		return nil, fmt.Errorf("%w: embedding query", domain.ErrProviderUnavailable)
	}

	hits, err := s.vectors.Query(ctx, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("querying vector store: %w", err)
	}

	results := make([]domain.SearchResult, len(hits))
	for i, hit := range hits {
		results[i] = domain.SearchResult{
			DocumentID: hit.Chunk.DocumentID,
			Title:      hit.Chunk.Title,
			Snippet:    hit.Chunk.Content,
			Similarity: domain.Similarity(hit.Distance),
		}
	}

	logger.Info("Search %q returned %d results", query, len(results))
	return results, nil
}
