// Package httpapi provides the HTTP adapter exposing the ingest, search
// and answer services as a JSON API.
package httpapi

import (
	"errors"

	"github.com/JuanMendez11/rag-fastapi-challenge/internal/core/ports/driving"
)

// Port validation errors.
var (
	ErrMissingIngestService = errors.New("httpapi: ingest service is required")
	ErrMissingSearchService = errors.New("httpapi: search service is required")
	ErrMissingAnswerService = errors.New("httpapi: answer service is required")
)

// Ports aggregates all driving port interfaces required by the HTTP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ingest handles document upload and embedding generation.
	Ingest driving.IngestService

	// Search provides semantic search over indexed chunks.
	Search driving.SearchService

	// Answer provides grounded question answering.
	Answer driving.AnswerService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Ingest == nil {
		return ErrMissingIngestService
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	return nil
}
