package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkID(t *testing.T) {
	assert.Equal(t, "doc-1_0", ChunkID("doc-1", 0))
	assert.Equal(t, "doc-1_12", ChunkID("doc-1", 12))

	// Same inputs always produce the same ID.
	assert.Equal(t, ChunkID("abc", 3), ChunkID("abc", 3))
}
