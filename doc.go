// Package retrievalcore provides a retrieval server for a corpus of
// long-form documents (PDF, EPUB, text).
//
// It ingests documents, builds a multi-index representation (document
// summaries, fixed-size text chunks, a concept vocabulary, and a category
// taxonomy), and answers natural-language queries over that corpus through
// a tool-oriented RPC surface consumed by an AI agent.
//
// # Quick start
//
// Install the CLI:
//
//	go install github.com/kadirpekel/retrieval-core/cmd/retrieval-core@latest
//
// Ingest a directory of documents:
//
//	retrieval-core ingest --config config.yaml ./docs
//
// Serve the MCP tool surface:
//
//	retrieval-core serve --config config.yaml
//
// # Architecture
//
// The core is a four-table normalized store (catalog, chunks, concepts,
// categories) backed by an embedded vector engine, a hybrid scoring
// service combining vector similarity, BM25, title match, concept overlap
// and lexical-ontology overlap, and a resilience layer protecting every
// external-service call made during ingestion and scoring.
package retrievalcore
