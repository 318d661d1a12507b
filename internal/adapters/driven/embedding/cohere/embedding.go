// Package cohere provides an embedding service adapter using the Cohere v2 API.
package cohere

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/JuanMendez11/rag-fastapi-challenge/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL   = "https://api.cohere.com"
	DefaultModel     = "embed-multilingual-v3.0"
	DefaultInputType = "search_document"
	DefaultTimeout   = 60 * time.Second

	// DefaultRequestsPerSecond caps outbound embed calls. Cohere's trial
	// keys throttle hard; production keys tolerate far more, so this is
	// configurable.
	DefaultRequestsPerSecond = 10

	// DefaultMaxAttempts bounds how often a failed call is tried.
	DefaultMaxAttempts = 3

	// DefaultRetryBackoff is the initial delay before a retry; it doubles
	// on each further attempt.
	DefaultRetryBackoff = 500 * time.Millisecond
)

// Model dimensions for Cohere embedding models.
var modelDimensions = map[string]int{
	"embed-multilingual-v3.0":       1024,
	"embed-english-v3.0":            1024,
	"embed-multilingual-light-v3.0": 384,
	"embed-english-light-v3.0":      384,
}

// Config holds configuration for the Cohere embedding service.
type Config struct {
	// APIKey is the Cohere API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.cohere.com).
	BaseURL string

	// Model is the embedding model to use (default: embed-multilingual-v3.0).
	Model string

	// InputType tells Cohere how the text will be used
	// (default: search_document).
	InputType string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// RequestsPerSecond limits outbound API calls (default: 10).
	RequestsPerSecond float64

	// MaxAttempts bounds retries of transient failures (default: 3).
	MaxAttempts int

	// RetryBackoff is the initial retry delay, doubled per attempt
	// (default: 500ms).
	RetryBackoff time.Duration
}

// EmbeddingService generates embeddings using the Cohere v2 API.
type EmbeddingService struct {
	client       *http.Client
	limiter      *rate.Limiter
	baseURL      string
	apiKey       string
	model        string
	inputType    string
	dimensions   int
	maxAttempts  int
	retryBackoff time.Duration
}

// embedRequest is the Cohere /v2/embed request format.
type embedRequest struct {
	Model          string   `json:"model"`
	Texts          []string `json:"texts"`
	InputType      string   `json:"input_type"`
	EmbeddingTypes []string `json:"embedding_types"`
}

// embedResponse is the Cohere /v2/embed response format.
type embedResponse struct {
	Embeddings struct {
		Float [][]float64 `json:"float"`
	} `json:"embeddings"`
}

// errorResponse is the Cohere error body format.
type errorResponse struct {
	Message string `json:"message"`
}

// NewEmbeddingService creates a new Cohere embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("cohere: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.InputType == "" {
		cfg.InputType = DefaultInputType
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = DefaultRetryBackoff
	}

	dimensions, ok := modelDimensions[cfg.Model]
	if !ok {
		dimensions = 1024 // Default fallback
	}

	return &EmbeddingService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:      rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		model:        cfg.Model,
		inputType:    cfg.InputType,
		dimensions:   dimensions,
		maxAttempts:  cfg.MaxAttempts,
		retryBackoff: cfg.RetryBackoff,
	}, nil
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("cohere: no embedding returned")
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for multiple texts in a single call.
// Transient failures (transport errors, 429 and 5xx responses) are
// retried with exponential backoff up to the configured attempt bound.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	reqBody := embedRequest{
		Model:          s.model,
		Texts:          texts,
		InputType:      s.inputType,
		EmbeddingTypes: []string{"float"},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	body, err := s.postWithRetry(ctx, jsonBody)
	if err != nil {
		return nil, err
	}

	var embedResp embedResponse
	if err := json.Unmarshal(body, &embedResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(embedResp.Embeddings.Float) != len(texts) {
		return nil, fmt.Errorf("cohere: got %d embeddings for %d texts",
			len(embedResp.Embeddings.Float), len(texts))
	}

	// Convert float64 to float32
	embeddings := make([][]float32, len(embedResp.Embeddings.Float))
	for i, vec := range embedResp.Embeddings.Float {
		embedding := make([]float32, len(vec))
		for j, v := range vec {
			embedding[j] = float32(v)
		}
		embeddings[i] = embedding
	}

	return embeddings, nil
}

// postWithRetry sends the embed request, retrying transient failures
// with exponential backoff. The final error is returned once attempts
// are exhausted or a non-retryable status arrives.
func (s *EmbeddingService) postWithRetry(ctx context.Context, jsonBody []byte) ([]byte, error) {
	var lastErr error
	delay := s.retryBackoff

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		body, retryable, err := s.post(ctx, jsonBody)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return nil, lastErr
}

// post performs a single /v2/embed call. The retryable flag marks
// transport errors and 429/5xx statuses as safe to retry.
func (s *EmbeddingService) post(ctx context.Context, jsonBody []byte) (data []byte, retryable bool, err error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, false, fmt.Errorf("cohere: rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/v2/embed",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		retry := resp.StatusCode == http.StatusTooManyRequests ||
			resp.StatusCode >= http.StatusInternalServerError

		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
			return nil, retry, fmt.Errorf("cohere error (status %d): %s", resp.StatusCode, errResp.Message)
		}
		return nil, retry, fmt.Errorf("cohere error (status %d): %s", resp.StatusCode, string(body))
	}

	return body, false, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by checking the /v1/models endpoint.
// This is a lightweight check that validates the API key without running inference.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v1/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("cohere: failed to create ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("cohere: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("cohere: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("cohere: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
