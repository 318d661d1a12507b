package cli

import (
	"fmt"

	"github.com/JuanMendez11/rag-fastapi-challenge/internal/adapters/driven/ai"
	"github.com/JuanMendez11/rag-fastapi-challenge/internal/adapters/driven/config/file"
	storagememory "github.com/JuanMendez11/rag-fastapi-challenge/internal/adapters/driven/storage/memory"
	vectormemory "github.com/JuanMendez11/rag-fastapi-challenge/internal/adapters/driven/vectorstore/memory"
	vectorsqlite "github.com/JuanMendez11/rag-fastapi-challenge/internal/adapters/driven/vectorstore/sqlite"
	"github.com/JuanMendez11/rag-fastapi-challenge/internal/core/ports/driven"
	"github.com/JuanMendez11/rag-fastapi-challenge/internal/core/services"
	"github.com/JuanMendez11/rag-fastapi-challenge/internal/logger"
	"github.com/JuanMendez11/rag-fastapi-challenge/internal/postprocessors"
	"github.com/JuanMendez11/rag-fastapi-challenge/internal/postprocessors/chunker"
)

// memoryDataDir selects the in-memory vector store instead of SQLite.
const memoryDataDir = ":memory:"

// app holds the wired services and their underlying resources.
type app struct {
	cfg      file.Config
	ingest   *services.IngestService
	search   *services.SearchService
	answer   *services.AnswerService
	vectors  driven.VectorStore
	embedder driven.EmbeddingService
	llm      driven.LLMService
}

// newApp loads configuration and wires the full service graph.
func newApp(configPath string) (*app, error) {
	cfg, err := file.Load(configPath)
	if err != nil {
		return nil, err
	}

	if cfg.Server.LogFile != "" {
		if err := logger.SetLogFile(cfg.Server.LogFile); err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
	}

	embedder, err := ai.CreateAndValidateEmbeddingService(cfg.EmbeddingSettings())
	if err != nil {
		return nil, err
	}

	llm, err := ai.CreateAndValidateLLMService(cfg.LLMSettings())
	if err != nil {
		if embedder != nil {
			embedder.Close()
		}
		return nil, err
	}

	var vectors driven.VectorStore
	if cfg.Storage.DataDir == memoryDataDir {
		vectors = vectormemory.NewStore()
	} else {
		store, err := vectorsqlite.NewStore(cfg.Storage.DataDir)
		if err != nil {
			if embedder != nil {
				embedder.Close()
			}
			if llm != nil {
				llm.Close()
			}
			return nil, fmt.Errorf("opening vector store: %w", err)
		}
		logger.Debug("Vector store at %s", store.Path())
		vectors = store
	}

	pipeline := postprocessors.NewPipeline(chunker.New(
		chunker.WithChunkSize(cfg.Chunking.Size),
		chunker.WithOverlap(cfg.Chunking.Overlap),
	))

	staging := storagememory.NewStagingStore()

	a := &app{
		cfg:      cfg,
		vectors:  vectors,
		embedder: embedder,
		llm:      llm,
	}
	a.ingest = services.NewIngestService(staging, vectors, embedder, pipeline)
	a.search = services.NewSearchService(vectors, embedder, cfg.Retrieval.SearchLimit)
	a.answer = services.NewAnswerService(vectors, embedder, llm,
		cfg.Retrieval.SimilarityThreshold, 0)

	return a, nil
}

// Close releases all resources held by the app.
func (a *app) Close() {
	if a.vectors != nil {
		a.vectors.Close()
	}
	if a.embedder != nil {
		a.embedder.Close()
	}
	if a.llm != nil {
		a.llm.Close()
	}
}
