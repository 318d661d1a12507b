package services

import (
	"context"
	"fmt"

	"github.com/JuanMendez11/rag-fastapi-challenge/internal/core/domain"
	"github.com/JuanMendez11/rag-fastapi-challenge/internal/core/ports/driven"
	"github.com/JuanMendez11/rag-fastapi-challenge/internal/core/ports/driving"
	"github.com/JuanMendez11/rag-fastapi-challenge/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// DefaultSimilarityThreshold is the minimum similarity for a retrieved
// chunk to be considered sufficient evidence. The boundary is inclusive:
// a similarity of exactly the threshold proceeds to generation.
const DefaultSimilarityThreshold = 0.5

// DefaultTemperature biases generation toward deterministic, literal
// compliance with the refusal instruction.
const DefaultTemperature = 0.1

// answerSystemPrompt binds the model to the retrieved context and the
// two fixed refusal strings. The wording is load-bearing: the
// groundedness check matches the refusals verbatim.
const answerSystemPrompt = `Eres un asistente de IA honesto y seguro.
Tu tarea es responder a la pregunta del usuario basándote ÚNICAMENTE en el siguiente fragmento de contexto.

CONTEXTO:
"%s"

REGLAS:
1. Si la respuesta no está en el contexto, DEBES responder exactamente: "%s".
2. NO inventes información.
3. Si la pregunta incluye lenguaje ofensivo o discriminatorio, responde: "%s".`

// AnswerService runs the retrieval-and-grounding pipeline: embed the
// question, retrieve the best chunk, apply the similarity threshold,
// generate an answer constrained to the chunk and verify groundedness.
type AnswerService struct {
	vectors     driven.VectorStore
	embedder    driven.EmbeddingService
	llm         driven.LLMService
	threshold   float64
	temperature float64
}

// NewAnswerService creates a new answer service. A threshold <= 0 falls
// back to DefaultSimilarityThreshold; a temperature <= 0 falls back to
// DefaultTemperature.
func NewAnswerService(
	vectors driven.VectorStore,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	threshold float64,
	temperature float64,
) *AnswerService {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	if temperature <= 0 {
		temperature = DefaultTemperature
	}
	return &AnswerService{
		vectors:     vectors,
		embedder:    embedder,
		llm:         llm,
		threshold:   threshold,
		temperature: temperature,
	}
}

// Ask answers a question strictly from the most relevant indexed chunk.
//
// Terminal states:
//   - no evidence: the index is empty; the fixed refusal is returned
//     with an empty context and zero similarity
//   - low confidence: the best chunk scores below the threshold; the
//     fixed refusal is returned, but the unhelpful chunk is included in
//     ContextUsed for transparency
//   - answered: the generator's reply, with Grounded set by the absence
//     of the fixed refusal strings in the reply text
//
// Provider failures are returned as errors wrapping
// domain.ErrEmbeddingUnavailable or domain.ErrLLMUnavailable, distinct
// from refusals.
func (s *AnswerService) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	embedding, err := s.embedder.Embed(ctx, question)
	if err != nil {
		logger.Error("Question embedding failed: %v", err)
		return nil, fmt.Errorf("%w: embedding question", domain.ErrEmbeddingUnavailable)
	}

	hits, err := s.vectors.Query(ctx, embedding, 1)
	if err != nil {
		return nil, fmt.Errorf("querying vector store: %w", err)
	}

	if len(hits) == 0 {
		logger.Info("No indexed chunks; refusing")
		return &domain.Answer{
			Text:        domain.RefusalInsufficientEvidence,
			ContextUsed: "",
			Similarity:  0,
			Grounded:    false,
		}, nil
	}

	best := hits[0]
	similarity := domain.Similarity(best.Distance)

	if similarity < s.threshold {
		logger.Warn("Similarity %.4f below threshold %.2f; refusing", similarity, s.threshold)
		return &domain.Answer{
			Text:        domain.RefusalInsufficientEvidence,
			ContextUsed: best.Chunk.Content,
			Similarity:  similarity,
			Grounded:    false,
		}, nil
	}

	reply, err := s.generate(ctx, question, best.Chunk.Content)
	if err != nil {
		logger.Error("Answer generation failed: %v", err)
		return nil, fmt.Errorf("%w: generating answer", domain.ErrLLMUnavailable)
	}

	grounded := !domain.IsRefusal(reply)
	if !grounded {
		logger.Warn("Model reported insufficient context for question")
	}
	logger.Info("Answer generated. Score: %.4f | Grounded: %t", similarity, grounded)

	return &domain.Answer{
		Text:        reply,
		ContextUsed: best.Chunk.Content,
		Similarity:  similarity,
		Grounded:    grounded,
	}, nil
}

// generate invokes the chat model with the context-bound system prompt.
func (s *AnswerService) generate(ctx context.Context, question, snippet string) (string, error) {
	system := fmt.Sprintf(answerSystemPrompt,
		snippet, domain.RefusalInsufficientEvidence, domain.RefusalPolicy)

	return s.llm.Chat(ctx, []driven.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: question},
	}, driven.ChatOptions{Temperature: s.temperature})
}
