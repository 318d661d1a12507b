// Package chunker provides a separator-aware text chunking processor.
package chunker

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/JuanMendez11/rag-fastapi-challenge/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 500

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 50

// separators are tried in priority order when choosing a cut point:
// paragraph, line, sentence, word. When none is present in the window
// the chunk is hard-cut at the size limit.
var separators = []string{"\n\n", "\n", ". ", " "}

// Processor splits document content into overlapping chunks, preferring
// to cut at natural text boundaries. It implements the PostProcessor
// interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks. Splitting is
// deterministic: the same document always yields the same chunks, with
// IDs derived from the document ID and chunk position.
// Input chunks are ignored; this processor creates new chunks.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc.Content == "" {
		// Empty content produces no chunks
		return nil, nil
	}

	segments := p.split(doc.Content)

	chunks := make([]domain.Chunk, 0, len(segments))
	for i, segment := range segments {
		chunks = append(chunks, domain.Chunk{
			ID:         domain.ChunkID(doc.ID, i),
			DocumentID: doc.ID,
			Title:      doc.Title,
			Content:    segment,
			Position:   i,
		})
	}

	return chunks, nil
}

// split walks the text with a sliding window of chunkSize characters.
// Each window is cut at the best available separator and the next window
// starts overlap characters before the cut, so adjacent segments share
// trailing/leading context. Indexing is rune-based throughout so
// multibyte text is never torn mid-character.
func (p *Processor) split(text string) []string {
	runes := []rune(text)
	if len(runes) <= p.chunkSize {
		return []string{text}
	}

	var segments []string
	start := 0
	for start < len(runes) {
		end := start + p.chunkSize
		if end >= len(runes) {
			segments = append(segments, string(runes[start:]))
			break
		}

		cut := cutPoint(runes[start:end])
		segments = append(segments, string(runes[start:start+cut]))

		next := start + cut - p.overlap
		if next <= start {
			// Guard against a cut shorter than the overlap
			next = start + cut
		}
		start = next
	}

	return segments
}

// cutPoint returns the segment length in runes for a full-size window,
// preferring paragraph over line over sentence over word boundaries. The
// separator stays with the left segment. Falls back to a hard cut at the
// window end.
func cutPoint(window []rune) int {
	w := string(window)
	for _, sep := range separators {
		if i := strings.LastIndex(w, sep); i > 0 {
			// Separators are ASCII, so the separator's byte and rune
			// lengths coincide; only the prefix needs recounting.
			return utf8.RuneCountInString(w[:i]) + len(sep)
		}
	}
	return len(window)
}
