// Package cohere provides an LLM service adapter using the Cohere v2 API.
package cohere

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/JuanMendez11/rag-fastapi-challenge/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "https://api.cohere.com"
	DefaultLLMModel   = "command-r-plus-08-2024"
	DefaultLLMTimeout = 120 * time.Second

	// DefaultRequestsPerSecond caps outbound chat calls.
	DefaultRequestsPerSecond = 10

	// DefaultMaxAttempts bounds how often a failed call is tried.
	DefaultMaxAttempts = 3

	// DefaultRetryBackoff is the initial delay before a retry; it doubles
	// on each further attempt.
	DefaultRetryBackoff = 500 * time.Millisecond
)

// LLMConfig holds configuration for the Cohere LLM service.
type LLMConfig struct {
	// APIKey is the Cohere API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.cohere.com).
	BaseURL string

	// Model is the chat model to use (default: command-r-plus-08-2024).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// RequestsPerSecond limits outbound API calls (default: 10).
	RequestsPerSecond float64

	// MaxAttempts bounds retries of transient failures (default: 3).
	MaxAttempts int

	// RetryBackoff is the initial retry delay, doubled per attempt
	// (default: 500ms).
	RetryBackoff time.Duration
}

// LLMService provides chat operations using the Cohere v2 API.
type LLMService struct {
	client       *http.Client
	limiter      *rate.Limiter
	baseURL      string
	apiKey       string
	model        string
	maxAttempts  int
	retryBackoff time.Duration
}

// chatRequest is the Cohere /v2/chat request format.
type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []chatMsg `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

// chatMsg is the Cohere chat message format.
type chatMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the Cohere /v2/chat response format.
type chatResponse struct {
	Message struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

// errorResponse is the Cohere error body format. The message field holds
// a string here, unlike the chat payload where it is an object.
type errorResponse struct {
	Message string `json:"message"`
}

// NewLLMService creates a new Cohere LLM service.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("cohere: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
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

	return &LLMService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:      rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		model:        cfg.Model,
		maxAttempts:  cfg.MaxAttempts,
		retryBackoff: cfg.RetryBackoff,
	}, nil
}

// Chat conducts a multi-turn conversation and returns the assistant's
// reply text. Transient failures (transport errors, 429 and 5xx
// responses) are retried with exponential backoff up to the configured
// attempt bound.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	chatMessages := make([]chatMsg, len(messages))
	for i, msg := range messages {
		chatMessages[i] = chatMsg{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	reqBody := chatRequest{
		Model:    s.model,
		Messages: chatMessages,
	}
	if opts.MaxTokens > 0 {
		reqBody.MaxTokens = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		reqBody.Temperature = opts.Temperature
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	body, err := s.postWithRetry(ctx, jsonBody)
	if err != nil {
		return "", err
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	// The reply may span multiple content blocks; concatenate the text ones.
	var sb strings.Builder
	for _, block := range chatResp.Message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	reply := sb.String()
	if reply == "" {
		return "", fmt.Errorf("cohere: no text content returned")
	}

	return reply, nil
}

// postWithRetry sends the chat request, retrying transient failures
// with exponential backoff. The final error is returned once attempts
// are exhausted or a non-retryable status arrives.
func (s *LLMService) postWithRetry(ctx context.Context, jsonBody []byte) ([]byte, error) {
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

// post performs a single /v2/chat call. The retryable flag marks
// transport errors and 429/5xx statuses as safe to retry.
func (s *LLMService) post(ctx context.Context, jsonBody []byte) (data []byte, retryable bool, err error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, false, fmt.Errorf("cohere: rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/v2/chat",
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

// ModelName returns the name of the chat model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by checking the /v1/models endpoint.
// This is a lightweight check that validates the API key without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
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
func (s *LLMService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
