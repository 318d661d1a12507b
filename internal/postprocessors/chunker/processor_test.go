package chunker

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuanMendez11/rag-fastapi-challenge/internal/core/domain"
)

func process(t *testing.T, p *Processor, content string) []domain.Chunk {
	t.Helper()
	doc := &domain.Document{ID: "doc-1", Title: "Título", Content: content}
	chunks, err := p.Process(context.Background(), doc, nil)
	require.NoError(t, err)
	return chunks
}

func TestProcessor_Defaults(t *testing.T) {
	p := New()

	assert.Equal(t, DefaultChunkSize, p.chunkSize)
	assert.Equal(t, DefaultChunkOverlap, p.overlap)
	assert.Equal(t, "chunker", p.Name())
}

func TestProcessor_OverlapClampedToChunkSize(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(200))

	assert.Equal(t, 100, p.chunkSize)
	assert.Equal(t, 25, p.overlap)
}

func TestProcessor_EmptyContent(t *testing.T) {
	chunks := process(t, New(), "")
	assert.Empty(t, chunks)
}

func TestProcessor_ShortContentSingleChunk(t *testing.T) {
	chunks := process(t, New(), "texto corto")

	require.Len(t, chunks, 1)
	assert.Equal(t, "texto corto", chunks[0].Content)
	assert.Equal(t, "doc-1_0", chunks[0].ID)
	assert.Equal(t, 0, chunks[0].Position)
}

func TestProcessor_HardCutWithOverlap(t *testing.T) {
	// 1200 characters with no separators force hard cuts at the size
	// limit: [0:500], [450:950], [900:1200].
	content := strings.Repeat("A", 1200)
	chunks := process(t, New(), content)

	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0].Content, 500)
	assert.Len(t, chunks[1].Content, 500)
	assert.Len(t, chunks[2].Content, 300)

	// Adjacent chunks share exactly the overlap.
	assert.Equal(t, chunks[0].Content[450:], chunks[1].Content[:50])
	assert.Equal(t, chunks[1].Content[450:], chunks[2].Content[:50])
}

func TestProcessor_PrefersParagraphBoundary(t *testing.T) {
	content := strings.Repeat("A", 300) + "\n\n" + strings.Repeat("B", 298)
	chunks := process(t, New(), content)

	require.Len(t, chunks, 2)
	assert.True(t, strings.HasSuffix(chunks[0].Content, "\n\n"))
	assert.NotContains(t, chunks[0].Content, "B")
}

func TestProcessor_FallsBackToSentenceBoundary(t *testing.T) {
	// No paragraph or line breaks; the last ". " inside the window wins.
	sentence := strings.Repeat("palabra ", 40) + "fin. "
	content := strings.Repeat(sentence, 5)
	chunks := process(t, New(), content)

	require.NotEmpty(t, chunks)
	for _, chunk := range chunks[:len(chunks)-1] {
		assert.True(t, strings.HasSuffix(chunk.Content, ". "),
			"chunk should end at a sentence boundary: %q", chunk.Content[len(chunk.Content)-10:])
	}
}

func TestProcessor_FallsBackToWordBoundary(t *testing.T) {
	content := strings.Repeat("palabralarga ", 100)
	chunks := process(t, New(), content)

	require.True(t, len(chunks) > 1)
	for _, chunk := range chunks[:len(chunks)-1] {
		assert.True(t, strings.HasSuffix(chunk.Content, " "))
	}
}

func TestProcessor_Deterministic(t *testing.T) {
	content := strings.Repeat("Lorem ipsum dolor sit amet. ", 60)

	first := process(t, New(), content)
	second := process(t, New(), content)

	assert.Equal(t, first, second)
}

func TestProcessor_ChunkMetadata(t *testing.T) {
	content := strings.Repeat("A", 1200)
	chunks := process(t, New(), content)

	for i, chunk := range chunks {
		assert.Equal(t, domain.ChunkID("doc-1", i), chunk.ID)
		assert.Equal(t, "doc-1", chunk.DocumentID)
		assert.Equal(t, "Título", chunk.Title)
		assert.Equal(t, i, chunk.Position)
		assert.Empty(t, chunk.Embedding)
	}
}

func TestProcessor_AccentedTextStaysValidUTF8(t *testing.T) {
	// Accented words around every boundary: a byte-based split would tear
	// the two-byte "ó" when the overlap repositions the window.
	content := strings.Repeat("información útil. ", 80)
	chunks := process(t, New(), content)

	require.True(t, len(chunks) > 1)
	for i, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk.Content),
			"chunk %d is not valid UTF-8: %q", i, chunk.Content)
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk.Content), DefaultChunkSize)
	}
}

func TestProcessor_CJKHardCutStaysValidUTF8(t *testing.T) {
	// 600 three-byte runes with no separators force a hard cut; sizes and
	// overlap are counted in runes, not bytes.
	content := strings.Repeat("漢", 600)
	chunks := process(t, New(), content)

	require.Len(t, chunks, 2)
	assert.Equal(t, 500, utf8.RuneCountInString(chunks[0].Content))
	assert.Equal(t, 150, utf8.RuneCountInString(chunks[1].Content))
	for i, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk.Content),
			"chunk %d is not valid UTF-8", i)
	}
}

func TestProcessor_MultibyteSentenceBoundary(t *testing.T) {
	sentence := strings.Repeat("qué pasó aquí ", 10) + "fin. "
	content := strings.Repeat(sentence, 8)
	chunks := process(t, New(), content)

	require.True(t, len(chunks) > 1)
	for i, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk.Content),
			"chunk %d is not valid UTF-8", i)
	}
	for _, chunk := range chunks[:len(chunks)-1] {
		assert.True(t, strings.HasSuffix(chunk.Content, ". "))
	}
}

func TestProcessor_CustomSize(t *testing.T) {
	content := strings.Repeat("A", 250)
	chunks := process(t, New(WithChunkSize(100), WithOverlap(10)), content)

	require.True(t, len(chunks) > 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk.Content), 100)
	}
}
