// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package app is the composition root: it wires config.Config into the
// store, embedder, ontology lookup, resilience executor, search
// services, ingestion pipeline, and MCP tool server that together make up
// one running instance (SPEC_FULL §2, "Application container: wires the
// graph of repositories, embedder, executor, services, and tool
// handlers. Single composition root.").
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/kadirpekel/retrieval-core/internal/catalogsearch"
	"github.com/kadirpekel/retrieval-core/internal/categorysearch"
	"github.com/kadirpekel/retrieval-core/internal/chunksearch"
	"github.com/kadirpekel/retrieval-core/internal/conceptsearch"
	"github.com/kadirpekel/retrieval-core/internal/config"
	"github.com/kadirpekel/retrieval-core/internal/embedding"
	"github.com/kadirpekel/retrieval-core/internal/expand"
	"github.com/kadirpekel/retrieval-core/internal/ingest"
	"github.com/kadirpekel/retrieval-core/internal/llm"
	"github.com/kadirpekel/retrieval-core/internal/logging"
	"github.com/kadirpekel/retrieval-core/internal/ontology"
	"github.com/kadirpekel/retrieval-core/internal/resilience"
	"github.com/kadirpekel/retrieval-core/internal/search"
	"github.com/kadirpekel/retrieval-core/internal/store"
	"github.com/kadirpekel/retrieval-core/internal/tool"
)

// Container holds every long-lived component of one running instance.
// Close releases the store's underlying engine and persists its
// snapshot; everything else is stateless or in-memory.
type Container struct {
	Config   *config.Config
	Logger   *slog.Logger
	Store    *store.Store
	Executor *resilience.Executor
	Embedder embedding.Embedder
	Pipeline *ingest.Pipeline
	Tool     *tool.Server
}

// New builds a Container from a validated config. The caller owns ctx
// for the duration of store initialization only; subsequent operations
// take their own per-call contexts.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	// Resilience profile overrides apply once, globally, before any
	// component starts calling Executor.Run: every call site throughout
	// this module references the resilience.Profile* package variables by
	// name rather than a value captured at construction time, so
	// reassigning them here is equivalent to threading an override through
	// every constructor, without changing any of those call sites.
	resilience.ProfileLLM, resilience.ProfileEmbedding, resilience.ProfileDatabase, resilience.ProfileSearch =
		cfg.Resilience.Profiles()

	logger := logging.New(logging.ParseLevel(cfg.Logging.Level), os.Stderr)

	st, err := store.NewStore(ctx, store.Config{PersistPath: cfg.Store.RootDir})
	if err != nil {
		return nil, fmt.Errorf("app: open store: %w", err)
	}

	exec := resilience.NewExecutor()

	embedder, err := buildEmbedder(cfg.Embedding, exec)
	if err != nil {
		return nil, fmt.Errorf("app: build embedder: %w", err)
	}

	ontologyLookup, err := buildOntology(cfg.Ontology)
	if err != nil {
		return nil, fmt.Errorf("app: build ontology lookup: %w", err)
	}

	expander := expand.New(ontologyLookup, st.Concepts, embedder, exec)
	hybrid := search.New(st.Catalog, st.Chunks, st.Concepts, expander, embedder, exec)

	catalogSearch := catalogsearch.New(hybrid)
	chunkSearch := chunksearch.New(hybrid, st.Catalog, st.Chunks)
	categorySearch := categorysearch.New(st.Categories, st.Catalog, st.Chunks)
	conceptSearch := conceptsearch.New(st.Concepts, st.Chunks, st.Catalog, exec)

	llmClient := llm.New(cfg.LLM)
	pipeline := ingest.New(
		st,
		ingest.PlainTextLoader{},
		llmClient,
		llmClient,
		embedder,
		ontologyLookup,
		exec,
		ingest.Config{
			BatchSize:     cfg.LLM.BatchSize,
			MaxCategories: cfg.LLM.MaxCategoriesPerDocument,
		},
		logger.With("component", "ingest"),
	)

	toolServer := tool.New(catalogSearch, chunkSearch, categorySearch, conceptSearch, st, exec, logger.With("component", "tool"))

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Store:    st,
		Executor: exec,
		Embedder: embedder,
		Pipeline: pipeline,
		Tool:     toolServer,
	}, nil
}

// Close releases the store's engine and persists its snapshot.
func (c *Container) Close() error {
	return c.Store.Close()
}

// buildEmbedder wires the default hashing embedder or reports that the
// http provider has no wireable production implementation in this
// offline module (SPEC_FULL §B.1: "no hosted provider is reachable from
// this offline module; the interface is exercised by a fake in tests").
func buildEmbedder(cfg config.EmbeddingConfig, _ *resilience.Executor) (embedding.Embedder, error) {
	switch cfg.Provider {
	case config.EmbeddingProviderHashing, "":
		return embedding.NewHashingEmbedder(cfg.Dimension), nil
	default:
		return nil, fmt.Errorf("app: embedding provider %q has no production implementation in this module; use %q",
			cfg.Provider, config.EmbeddingProviderHashing)
	}
}

// buildOntology wires the flat-file ontology provider behind an LRU
// cache, or returns a nil Lookup when no flat file is configured: both
// expand.Expander and ingest.Pipeline treat a nil Lookup as "no
// enrichment available" rather than an error.
func buildOntology(cfg config.OntologyConfig) (ontology.Lookup, error) {
	if cfg.FlatFilePath == "" {
		return nil, nil
	}

	provider, err := ontology.NewFlatFileProvider(cfg.FlatFilePath)
	if err != nil {
		return nil, fmt.Errorf("open ontology flat file: %w", err)
	}

	cached, err := ontology.NewCachedLookup(provider, cfg.CacheSize, cfg.CacheDiskPath, cfg.WriteThrough)
	if err != nil {
		return nil, fmt.Errorf("wrap ontology cache: %w", err)
	}
	return cached, nil
}
