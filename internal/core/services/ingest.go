package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JuanMendez11/rag-fastapi-challenge/internal/core/domain"
	"github.com/JuanMendez11/rag-fastapi-challenge/internal/core/ports/driven"
	"github.com/JuanMendez11/rag-fastapi-challenge/internal/core/ports/driving"
	"github.com/JuanMendez11/rag-fastapi-challenge/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService stages uploaded documents and turns them into embedded,
// searchable chunks.
type IngestService struct {
	staging  driven.StagingStore
	vectors  driven.VectorStore
	embedder driven.EmbeddingService
	pipeline driven.PostProcessorPipeline
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	staging driven.StagingStore,
	vectors driven.VectorStore,
	embedder driven.EmbeddingService,
	pipeline driven.PostProcessorPipeline,
) *IngestService {
	return &IngestService{
		staging:  staging,
		vectors:  vectors,
		embedder: embedder,
		pipeline: pipeline,
	}
}

// Upload validates and stages a document, returning its assigned ID.
func (s *IngestService) Upload(ctx context.Context, title, content string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", fmt.Errorf("%w: title must not be blank", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: content must not be blank", domain.ErrInvalidInput)
	}

	doc := domain.Document{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   content,
		CreatedAt: time.Now(),
	}

	if err := s.staging.Put(ctx, doc); err != nil {
		return "", fmt.Errorf("staging document: %w", err)
	}

	logger.Info("Document %q staged with ID %s", title, doc.ID)
	return doc.ID, nil
}

// GenerateEmbeddings splits a staged document into chunks, embeds each
// chunk and stores the vectors. Chunks are processed sequentially; on a
// mid-loop provider failure, chunks already stored for the document are
// deleted before the error is surfaced, so a document is never left
// half-indexed.
func (s *IngestService) GenerateEmbeddings(ctx context.Context, documentID string) (int, error) {
	if s.embedder == nil {
		return 0, domain.ErrEmbeddingUnavailable
	}

	doc, err := s.staging.Get(ctx, documentID)
	if err != nil {
		return 0, err
	}

	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		return 0, fmt.Errorf("chunking document %s: %w", documentID, err)
	}

	for i := range chunks {
		embedding, err := s.embedder.Embed(ctx, chunks[i].Content)
		if err != nil {
			logger.Error("Embedding chunk %s failed: %v", chunks[i].ID, err)
			s.rollback(ctx, documentID)
			return 0, fmt.Errorf("%w: embedding chunk %d of document %s",
				domain.ErrProviderUnavailable, i, documentID)
		}
		chunks[i].Embedding = embedding

		if err := s.vectors.Upsert(ctx, chunks[i]); err != nil {
			logger.Error("Storing chunk %s failed: %v", chunks[i].ID, err)
			s.rollback(ctx, documentID)
			return 0, fmt.Errorf("storing chunk %s: %w", chunks[i].ID, err)
		}
	}

	logger.Info("Stored %d chunks for document %s", len(chunks), documentID)
	return len(chunks), nil
}

// rollback removes chunks already stored for a document after a partial
// failure. Best-effort: a failed rollback is logged, not surfaced.
func (s *IngestService) rollback(ctx context.Context, documentID string) {
	if err := s.vectors.DeleteByDocument(ctx, documentID); err != nil {
		logger.Warn("Rollback for document %s failed: %v", documentID, err)
	}
}
