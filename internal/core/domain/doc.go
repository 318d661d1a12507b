// Package domain contains the core business entities and rules for the
// RAG service: documents, chunks, retrieval results and the grounding
// policy that decides whether an answer can be trusted.
package domain
