package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input, such as a
	// blank title or content on upload.
	ErrInvalidInput = errors.New("invalid input")

	// ErrProviderUnavailable indicates an external embedding or
	// generation provider failed or is unreachable. Surfaced to callers
	// as a generic service failure so provider details do not leak.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Embedding generation and search are disabled.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Question answering is disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)
