package domain

import "strings"

// Fixed refusal strings returned by the answer pipeline. The generation
// prompt instructs the model to reply with these verbatim, so callers and
// the groundedness check depend on the exact wording.
const (
	// RefusalInsufficientEvidence is returned when no retrieved context
	// supports an answer.
	RefusalInsufficientEvidence = "No cuento con información suficiente para responder a esta consulta."

	// RefusalPolicy is returned for abusive or discriminatory questions.
	RefusalPolicy = "No puedo responder a este tipo de consultas."
)

// refusalPolicyMarker matches the policy refusal by prefix, so that minor
// model rephrasings of the tail are still detected.
const refusalPolicyMarker = "No puedo responder"

// Answer is the terminal result of the ask pipeline.
type Answer struct {
	// Text is the generated answer, or a fixed refusal string.
	Text string

	// ContextUsed is the retrieved chunk the answer was generated from.
	// Empty when the index held no evidence at all.
	ContextUsed string

	// Similarity is the clamped similarity of the best retrieved chunk.
	Similarity float64

	// Grounded reports whether the answer is asserted to derive from the
	// retrieved context rather than a refusal.
	Grounded bool
}

// Similarity converts a cosine distance to a similarity score clamped to
// [0, 1]. Raw distances may exceed 1, which would yield a negative
// similarity; those must never leak to callers.
func Similarity(distance float64) float64 {
	s := 1 - distance
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// IsRefusal reports whether generated text contains one of the fixed
// refusal strings. This is a substring heuristic, not a semantic check:
// a model that paraphrases the refusal is misclassified as grounded.
func IsRefusal(text string) bool {
	return strings.Contains(text, RefusalInsufficientEvidence) ||
		strings.Contains(text, refusalPolicyMarker)
}
