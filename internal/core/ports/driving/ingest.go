package driving

import "context"

// IngestService manages document upload and embedding generation.
type IngestService interface {
	// Upload validates and stages a document, returning its assigned ID.
	// Returns domain.ErrInvalidInput when title or content is blank.
	Upload(ctx context.Context, title, content string) (string, error)

	// GenerateEmbeddings splits a staged document into chunks, embeds
	// each chunk and stores the vectors. Returns the number of chunks
	// created. Returns domain.ErrNotFound for an unknown document ID and
	// domain.ErrProviderUnavailable when the embedding provider fails.
	GenerateEmbeddings(ctx context.Context, documentID string) (int, error)
}
