package domain

// AIProvider identifies which external AI provider backs a service.
type AIProvider string

// Supported AI providers.
const (
	AIProviderCohere AIProvider = "cohere"
	AIProviderOpenAI AIProvider = "openai"
)

// EmbeddingSettings configures the embedding provider.
type EmbeddingSettings struct {
	Provider          AIProvider
	Model             string
	BaseURL           string
	APIKey            string
	RequestsPerSecond float64
}

// IsConfigured reports whether the settings name a provider.
func (s *EmbeddingSettings) IsConfigured() bool {
	return s != nil && s.Provider != ""
}

// LLMSettings configures the chat model provider.
type LLMSettings struct {
	Provider          AIProvider
	Model             string
	BaseURL           string
	APIKey            string
	RequestsPerSecond float64
}

// IsConfigured reports whether the settings name a provider.
func (s *LLMSettings) IsConfigured() bool {
	return s != nil && s.Provider != ""
}
