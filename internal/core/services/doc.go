// Package services implements the application core: document ingestion,
// semantic search and the retrieval-and-grounding answer pipeline.
// Services depend only on driven ports and are wired with concrete
// adapters at startup.
package services
