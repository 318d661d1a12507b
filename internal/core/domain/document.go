package domain

import (
	"fmt"
	"time"
)

// Document represents a raw uploaded document staged for embedding
// generation. It is never mutated after upload.
type Document struct {
	// ID is the unique identifier assigned at upload time.
	ID string

	// Title is the human-readable title.
	Title string

	// Content is the full text content as uploaded.
	Content string

	// CreatedAt is when the document was uploaded.
	CreatedAt time.Time
}

// Chunk represents a searchable unit within a document.
// Documents are split into overlapping chunks for granular retrieval.
type Chunk struct {
	// ID is the unique identifier, derived from the parent document ID
	// and the chunk position. See ChunkID.
	ID string

	// DocumentID is a non-owning back-reference to the parent document,
	// used to regroup chunks at query time.
	DocumentID string

	// Title is a denormalised copy of the parent document title.
	Title string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Embedding is the vector representation for semantic search.
	Embedding []float32
}

// ChunkID derives the deterministic chunk identifier for a document and
// position. For a document with N chunks the generated IDs are exactly
// <docID>_0 .. <docID>_(N-1).
func ChunkID(documentID string, position int) string {
	return fmt.Sprintf("%s_%d", documentID, position)
}

// Retrieval is a single nearest-neighbour hit produced by a vector store
// query. It is ephemeral and never persisted.
type Retrieval struct {
	// Chunk is the matched chunk, hydrated with content and metadata.
	Chunk Chunk

	// Distance is the cosine distance to the query vector (lower is
	// more similar, range [0, 2]).
	Distance float64
}

// SearchResult represents a single search hit as exposed to callers.
type SearchResult struct {
	// DocumentID is the parent document identifier.
	DocumentID string

	// Title is the parent document title.
	Title string

	// Snippet is the matched chunk text.
	Snippet string

	// Similarity is the clamped cosine similarity (0-1).
	Similarity float64
}
