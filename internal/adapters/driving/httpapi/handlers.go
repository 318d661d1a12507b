package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/JuanMendez11/rag-fastapi-challenge/internal/core/domain"
	"github.com/JuanMendez11/rag-fastapi-challenge/internal/logger"
)

// Fixed error details surfaced to API clients.
const (
	detailEmptyTitle        = "El título no puede estar vacío."
	detailEmptyContent      = "El contenido no puede estar vacío."
	detailDocumentNotFound  = "Documento no encontrado"
	detailEmbeddingsFailed  = "El servicio externo no pudo procesar la solicitud en este momento."
	detailProviderFailed    = "El servicio externo no pudo procesar la solicitud."
	detailQuestionFailed    = "Error al procesar la pregunta."
	detailMalformedBody     = "Cuerpo de la solicitud inválido."
	detailMethodNotAllowed  = "Método no permitido."
	detailInternalServerErr = "Error interno del servidor."
)

// uploadRequest is the /upload request body.
type uploadRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// uploadResponse is the /upload response body.
type uploadResponse struct {
	Message    string `json:"message"`
	DocumentID string `json:"document_id"`
}

// generateEmbeddingsRequest is the /generate-embeddings request body.
type generateEmbeddingsRequest struct {
	DocumentID string `json:"document_id"`
}

// generateEmbeddingsResponse is the /generate-embeddings response body.
type generateEmbeddingsResponse struct {
	Message string `json:"message"`
}

// searchRequest is the /search request body.
type searchRequest struct {
	Query string `json:"query"`
}

// searchResultItem is a single /search result.
type searchResultItem struct {
	DocumentID      string  `json:"document_id"`
	Title           string  `json:"title"`
	ContentSnippet  string  `json:"content_snippet"`
	SimilarityScore float64 `json:"similarity_score"`
}

// searchResponse is the /search response body.
type searchResponse struct {
	Results []searchResultItem `json:"results"`
}

// askRequest is the /ask request body.
type askRequest struct {
	Question string `json:"question"`
}

// askResponse is the /ask response body.
type askResponse struct {
	Answer          string  `json:"answer"`
	ContextUsed     string  `json:"context_used"`
	SimilarityScore float64 `json:"similarity_score"`
	Grounded        bool    `json:"grounded"`
}

// errorResponse is the body for all error statuses.
type errorResponse struct {
	Detail string `json:"detail"`
}

// handleUpload stages a document and returns its assigned ID.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, detailMethodNotAllowed)
		return
	}

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, detailMalformedBody)
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, detailEmptyTitle)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, detailEmptyContent)
		return
	}

	documentID, err := s.ports.Ingest.Upload(r.Context(), req.Title, req.Content)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, detailMalformedBody)
			return
		}
		logger.Error("Upload failed: %v", err)
		writeError(w, http.StatusInternalServerError, detailInternalServerErr)
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{
		Message:    "Document uploaded successfully",
		DocumentID: documentID,
	})
}

// handleGenerateEmbeddings chunks, embeds and indexes a staged document.
func (s *Server) handleGenerateEmbeddings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, detailMethodNotAllowed)
		return
	}

	var req generateEmbeddingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, detailMalformedBody)
		return
	}

	_, err := s.ports.Ingest.GenerateEmbeddings(r.Context(), req.DocumentID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, detailDocumentNotFound)
		case errors.Is(err, domain.ErrProviderUnavailable),
			errors.Is(err, domain.ErrEmbeddingUnavailable):
			logger.Error("Embedding generation failed: %v", err)
			writeError(w, http.StatusInternalServerError, detailEmbeddingsFailed)
		default:
			logger.Error("Embedding generation failed: %v", err)
			writeError(w, http.StatusInternalServerError, detailInternalServerErr)
		}
		return
	}

	writeJSON(w, http.StatusOK, generateEmbeddingsResponse{
		Message: fmt.Sprintf("Embeddings generated successfully for document %s", req.DocumentID),
	})
}

// handleSearch returns the chunks most similar to the query.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, detailMethodNotAllowed)
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, detailMalformedBody)
		return
	}

	results, err := s.ports.Search.Search(r.Context(), req.Query, 0)
	if err != nil {
		logger.Error("Search failed: %v", err)
		writeError(w, http.StatusInternalServerError, detailProviderFailed)
		return
	}

	items := make([]searchResultItem, len(results))
	for i, res := range results {
		items[i] = searchResultItem{
			DocumentID:      res.DocumentID,
			Title:           res.Title,
			ContentSnippet:  res.Snippet,
			SimilarityScore: res.Similarity,
		}
	}

	writeJSON(w, http.StatusOK, searchResponse{Results: items})
}

// handleAsk answers a question strictly from the indexed corpus.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, detailMethodNotAllowed)
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, detailMalformedBody)
		return
	}

	answer, err := s.ports.Answer.Ask(r.Context(), req.Question)
	if err != nil {
		logger.Error("Ask failed: %v", err)
		if errors.Is(err, domain.ErrEmbeddingUnavailable) {
			writeError(w, http.StatusInternalServerError, detailQuestionFailed)
			return
		}
		writeError(w, http.StatusInternalServerError, detailProviderFailed)
		return
	}

	writeJSON(w, http.StatusOK, askResponse{
		Answer:          answer.Text,
		ContextUsed:     answer.ContextUsed,
		SimilarityScore: answer.Similarity,
		Grounded:        answer.Grounded,
	})
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Encoding response failed: %v", err)
	}
}

// writeError writes an error response in the {"detail": ...} format.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}
