package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/JuanMendez11/rag-fastapi-challenge/internal/logger"
)

// Server is the HTTP server exposing the JSON API.
type Server struct {
	ports *Ports
	mux   *http.ServeMux
}

// NewServer creates a new HTTP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports: ports,
		mux:   http.NewServeMux(),
	}
	s.routes()

	return s, nil
}

// routes registers all endpoint handlers.
func (s *Server) routes() {
	s.mux.HandleFunc("/upload", s.handleUpload)
	s.mux.HandleFunc("/generate-embeddings", s.handleGenerateEmbeddings)
	s.mux.HandleFunc("/search", s.handleSearch)
	s.mux.HandleFunc("/ask", s.handleAsk)
	s.mux.HandleFunc("/healthz", s.handleHealth)
}

// Handler returns the root HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run starts the HTTP server on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("HTTP API listening on %s", addr)
	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
