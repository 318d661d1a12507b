package cohere

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuanMendez11/rag-fastapi-challenge/internal/core/ports/driven"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := NewLLMService(LLMConfig{
		APIKey:            "test-key",
		BaseURL:           srv.URL,
		RequestsPerSecond: 1000,
		RetryBackoff:      time.Millisecond,
	})
	require.NoError(t, err)
	return svc
}

func TestNewLLMService_RequiresAPIKey(t *testing.T) {
	_, err := NewLLMService(LLMConfig{})
	assert.Error(t, err)
}

func TestNewLLMService_Defaults(t *testing.T) {
	svc, err := NewLLMService(LLMConfig{APIKey: "k"})

	require.NoError(t, err)
	assert.Equal(t, DefaultLLMModel, svc.ModelName())
}

func TestLLMService_Chat(t *testing.T) {
	var gotReq chatRequest

	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/chat", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{
				"content": []map[string]any{
					{"type": "text", "text": "La capital es Lima."},
				},
			},
		})
	})

	reply, err := svc.Chat(context.Background(), []driven.ChatMessage{
		{Role: "system", Content: "instrucciones"},
		{Role: "user", Content: "¿Cuál es la capital?"},
	}, driven.ChatOptions{Temperature: 0.1})

	require.NoError(t, err)
	assert.Equal(t, "La capital es Lima.", reply)
	assert.Equal(t, DefaultLLMModel, gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.InDelta(t, 0.1, gotReq.Temperature, 1e-9)
}

func TestLLMService_Chat_ConcatenatesTextBlocks(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{
				"content": []map[string]any{
					{"type": "text", "text": "Primera parte. "},
					{"type": "text", "text": "Segunda parte."},
				},
			},
		})
	})

	reply, err := svc.Chat(context.Background(),
		[]driven.ChatMessage{{Role: "user", Content: "q"}}, driven.ChatOptions{})

	require.NoError(t, err)
	assert.Equal(t, "Primera parte. Segunda parte.", reply)
}

func TestLLMService_Chat_APIError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]string{"message": "rate limited"})
	})

	_, err := svc.Chat(context.Background(),
		[]driven.ChatMessage{{Role: "user", Content: "q"}}, driven.ChatOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestLLMService_Chat_RetriesTransientFailure(t *testing.T) {
	var calls int

	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{
				"content": []map[string]any{
					{"type": "text", "text": "respuesta"},
				},
			},
		})
	})

	reply, err := svc.Chat(context.Background(),
		[]driven.ChatMessage{{Role: "user", Content: "q"}}, driven.ChatOptions{})

	require.NoError(t, err)
	assert.Equal(t, "respuesta", reply)
	assert.Equal(t, 2, calls)
}

func TestLLMService_Chat_NoRetryOnClientError(t *testing.T) {
	var calls int

	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "bad payload"})
	})

	_, err := svc.Chat(context.Background(),
		[]driven.ChatMessage{{Role: "user", Content: "q"}}, driven.ChatOptions{})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestLLMService_Chat_EmptyContent(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{"content": []map[string]any{}},
		})
	})

	_, err := svc.Chat(context.Background(),
		[]driven.ChatMessage{{Role: "user", Content: "q"}}, driven.ChatOptions{})

	assert.Error(t, err)
}
