package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuanMendez11/rag-fastapi-challenge/internal/core/domain"
)

// --- Mock implementations ---

type mockIngestService struct {
	uploadID  string
	uploadErr error
	genCount  int
	genErr    error
	gotTitle  string
	gotDocID  string
}

func (m *mockIngestService) Upload(_ context.Context, title, _ string) (string, error) {
	m.gotTitle = title
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	return m.uploadID, nil
}

func (m *mockIngestService) GenerateEmbeddings(_ context.Context, documentID string) (int, error) {
	m.gotDocID = documentID
	if m.genErr != nil {
		return 0, m.genErr
	}
	return m.genCount, nil
}

type mockSearchService struct {
	results   []domain.SearchResult
	searchErr error
	gotQuery  string
}

func (m *mockSearchService) Search(_ context.Context, query string, _ int) ([]domain.SearchResult, error) {
	m.gotQuery = query
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.results, nil
}

type mockAnswerService struct {
	answer *domain.Answer
	askErr error
}

func (m *mockAnswerService) Ask(_ context.Context, _ string) (*domain.Answer, error) {
	if m.askErr != nil {
		return nil, m.askErr
	}
	return m.answer, nil
}

func newTestServer(t *testing.T, ingest *mockIngestService, search *mockSearchService, answer *mockAnswerService) *Server {
	t.Helper()
	if ingest == nil {
		ingest = &mockIngestService{}
	}
	if search == nil {
		search = &mockSearchService{}
	}
	if answer == nil {
		answer = &mockAnswerService{}
	}
	server, err := NewServer(&Ports{Ingest: ingest, Search: search, Answer: answer})
	require.NoError(t, err)
	return server
}

func doJSON(t *testing.T, server *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// --- Tests ---

func TestNewServer_MissingPorts(t *testing.T) {
	_, err := NewServer(&Ports{})
	assert.ErrorIs(t, err, ErrMissingIngestService)

	_, err = NewServer(&Ports{Ingest: &mockIngestService{}})
	assert.ErrorIs(t, err, ErrMissingSearchService)

	_, err = NewServer(&Ports{Ingest: &mockIngestService{}, Search: &mockSearchService{}})
	assert.ErrorIs(t, err, ErrMissingAnswerService)
}

func TestHandleUpload_Success(t *testing.T) {
	ingest := &mockIngestService{uploadID: "doc-123"}
	server := newTestServer(t, ingest, nil, nil)

	rec := doJSON(t, server, http.MethodPost, "/upload",
		`{"title": "Manual", "content": "Contenido del manual"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Document uploaded successfully", body["message"])
	assert.Equal(t, "doc-123", body["document_id"])
	assert.Equal(t, "Manual", ingest.gotTitle)
}

func TestHandleUpload_EmptyTitle(t *testing.T) {
	server := newTestServer(t, nil, nil, nil)

	rec := doJSON(t, server, http.MethodPost, "/upload",
		`{"title": "  ", "content": "algo"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, detailEmptyTitle, decodeBody(t, rec)["detail"])
}

func TestHandleUpload_EmptyContent(t *testing.T) {
	server := newTestServer(t, nil, nil, nil)

	rec := doJSON(t, server, http.MethodPost, "/upload",
		`{"title": "Manual", "content": ""}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, detailEmptyContent, decodeBody(t, rec)["detail"])
}

func TestHandleUpload_MalformedJSON(t *testing.T) {
	server := newTestServer(t, nil, nil, nil)

	rec := doJSON(t, server, http.MethodPost, "/upload", `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleUpload_MethodNotAllowed(t *testing.T) {
	server := newTestServer(t, nil, nil, nil)

	rec := doJSON(t, server, http.MethodGet, "/upload", "")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleGenerateEmbeddings_Success(t *testing.T) {
	ingest := &mockIngestService{genCount: 3}
	server := newTestServer(t, ingest, nil, nil)

	rec := doJSON(t, server, http.MethodPost, "/generate-embeddings",
		`{"document_id": "doc-123"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Embeddings generated successfully for document doc-123", body["message"])
	assert.Equal(t, "doc-123", ingest.gotDocID)
}

func TestHandleGenerateEmbeddings_NotFound(t *testing.T) {
	ingest := &mockIngestService{genErr: domain.ErrNotFound}
	server := newTestServer(t, ingest, nil, nil)

	rec := doJSON(t, server, http.MethodPost, "/generate-embeddings",
		`{"document_id": "missing"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, detailDocumentNotFound, decodeBody(t, rec)["detail"])
}

func TestHandleGenerateEmbeddings_ProviderFailure(t *testing.T) {
	ingest := &mockIngestService{genErr: domain.ErrProviderUnavailable}
	server := newTestServer(t, ingest, nil, nil)

	rec := doJSON(t, server, http.MethodPost, "/generate-embeddings",
		`{"document_id": "doc-123"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, detailEmbeddingsFailed, decodeBody(t, rec)["detail"])
}

func TestHandleSearch_Success(t *testing.T) {
	search := &mockSearchService{
		results: []domain.SearchResult{
			{DocumentID: "doc-1", Title: "Guía", Snippet: "fragmento", Similarity: 0.87},
		},
	}
	server := newTestServer(t, nil, search, nil)

	rec := doJSON(t, server, http.MethodPost, "/search", `{"query": "fragmento"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fragmento", search.gotQuery)

	var body struct {
		Results []struct {
			DocumentID      string  `json:"document_id"`
			Title           string  `json:"title"`
			ContentSnippet  string  `json:"content_snippet"`
			SimilarityScore float64 `json:"similarity_score"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, "doc-1", body.Results[0].DocumentID)
	assert.Equal(t, "fragmento", body.Results[0].ContentSnippet)
	assert.InDelta(t, 0.87, body.Results[0].SimilarityScore, 1e-9)
}

func TestHandleSearch_EmptyResults(t *testing.T) {
	server := newTestServer(t, nil, &mockSearchService{}, nil)

	rec := doJSON(t, server, http.MethodPost, "/search", `{"query": "nada"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"results": []}`, rec.Body.String())
}

func TestHandleSearch_ProviderFailure(t *testing.T) {
	search := &mockSearchService{searchErr: domain.ErrProviderUnavailable}
	server := newTestServer(t, nil, search, nil)

	rec := doJSON(t, server, http.MethodPost, "/search", `{"query": "algo"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, detailProviderFailed, decodeBody(t, rec)["detail"])
}

func TestHandleAsk_Success(t *testing.T) {
	answer := &mockAnswerService{
		answer: &domain.Answer{
			Text:        "La capital es Lima.",
			ContextUsed: "fragmento con la capital",
			Similarity:  0.91,
			Grounded:    true,
		},
	}
	server := newTestServer(t, nil, nil, answer)

	rec := doJSON(t, server, http.MethodPost, "/ask", `{"question": "¿Cuál es la capital?"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "La capital es Lima.", body["answer"])
	assert.Equal(t, "fragmento con la capital", body["context_used"])
	assert.InDelta(t, 0.91, body["similarity_score"].(float64), 1e-9)
	assert.Equal(t, true, body["grounded"])
}

func TestHandleAsk_Refusal(t *testing.T) {
	answer := &mockAnswerService{
		answer: &domain.Answer{
			Text:        domain.RefusalInsufficientEvidence,
			ContextUsed: "",
			Similarity:  0,
			Grounded:    false,
		},
	}
	server := newTestServer(t, nil, nil, answer)

	rec := doJSON(t, server, http.MethodPost, "/ask", `{"question": "pregunta"}`)

	// A refusal is still a successful response, not an error.
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, domain.RefusalInsufficientEvidence, body["answer"])
	assert.Equal(t, false, body["grounded"])
}

func TestHandleAsk_EmbeddingFailure(t *testing.T) {
	answer := &mockAnswerService{
		askErr: errors.Join(domain.ErrEmbeddingUnavailable, errors.New("timeout")),
	}
	server := newTestServer(t, nil, nil, answer)

	rec := doJSON(t, server, http.MethodPost, "/ask", `{"question": "pregunta"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, detailQuestionFailed, decodeBody(t, rec)["detail"])
}

func TestHandleAsk_LLMFailure(t *testing.T) {
	answer := &mockAnswerService{askErr: domain.ErrLLMUnavailable}
	server := newTestServer(t, nil, nil, answer)

	rec := doJSON(t, server, http.MethodPost, "/ask", `{"question": "pregunta"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, detailProviderFailed, decodeBody(t, rec)["detail"])
}

func TestHandleHealth(t *testing.T) {
	server := newTestServer(t, nil, nil, nil)

	rec := doJSON(t, server, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}
