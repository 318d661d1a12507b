// Package file provides TOML-based configuration loading.
package file

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/JuanMendez11/rag-fastapi-challenge/internal/core/domain"
)

// Default configuration values.
const (
	DefaultAddr                = ":8000"
	DefaultChunkSize           = 500
	DefaultChunkOverlap        = 50
	DefaultSimilarityThreshold = 0.5
	DefaultSearchLimit         = 3
	DefaultEmbeddingProvider   = "cohere"
	DefaultLLMProvider         = "cohere"
	DefaultAPIKeyEnv           = "COHERE_API_KEY"
)

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Storage   StorageConfig   `toml:"storage"`
	Chunking  ChunkingConfig  `toml:"chunking"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Embedding ProviderConfig  `toml:"embedding"`
	LLM       ProviderConfig  `toml:"llm"`
}

// ServerConfig configures the HTTP listener and the optional drop
// directory watcher.
type ServerConfig struct {
	// Addr is the listen address (default: ":8000").
	Addr string `toml:"addr"`

	// WatchDir, when set, is watched for dropped .txt and .md files
	// which are ingested automatically.
	WatchDir string `toml:"watch_dir"`

	// LogFile, when set, tees log output to this file in addition to
	// stderr.
	LogFile string `toml:"log_file"`
}

// StorageConfig configures persistence.
type StorageConfig struct {
	// DataDir holds the SQLite database. Empty means ~/.ragd/data.
	// The literal value ":memory:" selects the in-memory store.
	DataDir string `toml:"data_dir"`
}

// ChunkingConfig configures the document splitter.
type ChunkingConfig struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

// RetrievalConfig configures search and answer retrieval.
type RetrievalConfig struct {
	// SimilarityThreshold is the minimum score for answering (default: 0.5).
	SimilarityThreshold float64 `toml:"similarity_threshold"`

	// SearchLimit is the default number of search results (default: 3).
	SearchLimit int `toml:"search_limit"`
}

// ProviderConfig configures an AI provider.
type ProviderConfig struct {
	// Provider selects the backend: "cohere" or "openai".
	Provider string `toml:"provider"`

	// Model overrides the provider's default model.
	Model string `toml:"model"`

	// BaseURL overrides the provider's default endpoint.
	BaseURL string `toml:"base_url"`

	// APIKeyEnv names the environment variable holding the API key
	// (default: COHERE_API_KEY). Keys never live in the config file.
	APIKeyEnv string `toml:"api_key_env"`

	// RequestsPerSecond limits outbound API calls.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// DefaultConfig returns a configuration with all defaults applied.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr: DefaultAddr,
		},
		Chunking: ChunkingConfig{
			Size:    DefaultChunkSize,
			Overlap: DefaultChunkOverlap,
		},
		Retrieval: RetrievalConfig{
			SimilarityThreshold: DefaultSimilarityThreshold,
			SearchLimit:         DefaultSearchLimit,
		},
		Embedding: ProviderConfig{
			Provider:  DefaultEmbeddingProvider,
			APIKeyEnv: DefaultAPIKeyEnv,
		},
		LLM: ProviderConfig{
			Provider:  DefaultLLMProvider,
			APIKeyEnv: DefaultAPIKeyEnv,
		},
	}
}

// Load reads configuration from a TOML file. A missing path or a path
// that does not exist yields the defaults; fields absent from the file
// keep their default values.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults backfills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Chunking.Size <= 0 {
		c.Chunking.Size = DefaultChunkSize
	}
	if c.Chunking.Overlap < 0 {
		c.Chunking.Overlap = DefaultChunkOverlap
	}
	if c.Retrieval.SimilarityThreshold <= 0 {
		c.Retrieval.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if c.Retrieval.SearchLimit <= 0 {
		c.Retrieval.SearchLimit = DefaultSearchLimit
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = DefaultEmbeddingProvider
	}
	if c.Embedding.APIKeyEnv == "" {
		c.Embedding.APIKeyEnv = DefaultAPIKeyEnv
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = DefaultLLMProvider
	}
	if c.LLM.APIKeyEnv == "" {
		c.LLM.APIKeyEnv = DefaultAPIKeyEnv
	}
}

// EmbeddingSettings resolves the embedding provider settings, reading
// the API key from the configured environment variable.
func (c *Config) EmbeddingSettings() *domain.EmbeddingSettings {
	return &domain.EmbeddingSettings{
		Provider:          domain.AIProvider(c.Embedding.Provider),
		Model:             c.Embedding.Model,
		BaseURL:           c.Embedding.BaseURL,
		APIKey:            os.Getenv(c.Embedding.APIKeyEnv),
		RequestsPerSecond: c.Embedding.RequestsPerSecond,
	}
}

// LLMSettings resolves the chat provider settings, reading the API key
// from the configured environment variable.
func (c *Config) LLMSettings() *domain.LLMSettings {
	return &domain.LLMSettings{
		Provider:          domain.AIProvider(c.LLM.Provider),
		Model:             c.LLM.Model,
		BaseURL:           c.LLM.BaseURL,
		APIKey:            os.Getenv(c.LLM.APIKeyEnv),
		RequestsPerSecond: c.LLM.RequestsPerSecond,
	}
}
