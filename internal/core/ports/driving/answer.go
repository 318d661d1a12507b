package driving

import (
	"context"

	"github.com/JuanMendez11/rag-fastapi-challenge/internal/core/domain"
)

// AnswerService answers natural-language questions strictly from
// retrieved context, refusing when evidence is insufficient.
type AnswerService interface {
	// Ask runs the retrieval-and-grounding pipeline for one question.
	// A refusal is a valid terminal result, not an error; errors are
	// reserved for provider and infrastructure failures.
	Ask(ctx context.Context, question string) (*domain.Answer, error)
}
