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

package tool

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kadirpekel/retrieval-core/internal/catalogsearch"
	"github.com/kadirpekel/retrieval-core/internal/categorysearch"
	"github.com/kadirpekel/retrieval-core/internal/chunksearch"
	"github.com/kadirpekel/retrieval-core/internal/conceptsearch"
	"github.com/kadirpekel/retrieval-core/internal/resilience"
	"github.com/kadirpekel/retrieval-core/internal/store"
)

// serverVersion is reported to MCP clients in the implementation handshake.
const serverVersion = "0.1.0"

// Server dispatches the nine tools of §6.1 onto the thin search
// orchestrators, the concept-search service, and direct repository reads
// for the three repository-only tools the pack table names but no
// dedicated service owns (extract_concepts, source_concepts,
// concept_sources).
type Server struct {
	mcp *mcp.Server

	catalogSearch  *catalogsearch.Service
	chunkSearch    *chunksearch.Service
	categorySearch *categorysearch.Service
	conceptSearch  *conceptsearch.Service
	store          *store.Store
	executor       *resilience.Executor
	logger         *slog.Logger
}

// New wires a Server over the given services and starts with no tools
// registered until Register is called.
func New(
	catalogSearch *catalogsearch.Service,
	chunkSearch *chunksearch.Service,
	categorySearch *categorysearch.Service,
	conceptSearch *conceptsearch.Service,
	st *store.Store,
	executor *resilience.Executor,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		catalogSearch:  catalogSearch,
		chunkSearch:    chunkSearch,
		categorySearch: categorySearch,
		conceptSearch:  conceptSearch,
		store:          st,
		executor:       executor,
		logger:         logger,
	}
	s.mcp = mcp.NewServer(&mcp.Implementation{Name: "retrieval-core", Version: serverVersion}, nil)
	s.register()
	return s
}

func (s *Server) register() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "catalog_search",
		Description: "Hybrid search over document-level catalog rows: returns the top-scoring documents for a natural-language query.",
	}, s.handleCatalogSearch)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "chunks_search",
		Description: "Hybrid search for chunks within one named document.",
	}, s.handleChunksSearch)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "broad_chunks_search",
		Description: "Hybrid search for chunks across the entire corpus.",
	}, s.handleBroadChunksSearch)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "concept_search",
		Description: "Look up a concept by name and return the chunks that mention it, ranked by density, relevance, or source.",
	}, s.handleConceptSearch)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "extract_concepts",
		Description: "Return a document's primary concepts, categories, and related concepts, derived entirely from stored IDs.",
	}, s.handleExtractConcepts)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "source_concepts",
		Description: "List the concepts mentioned in one document, ranked by how many of its chunks mention each.",
	}, s.handleSourceConcepts)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "concept_sources",
		Description: "List the documents that mention a concept.",
	}, s.handleConceptSources)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "category_search",
		Description: "Look up one category's documents and the union of concepts found in them.",
	}, s.handleCategorySearch)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_categories",
		Description: "List every category row known to the corpus.",
	}, s.handleListCategories)

	s.logger.Info("registered MCP tools", "count", 9)
}

// Serve runs the MCP server over stdio until ctx is canceled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting MCP server", "transport", "stdio")
	if err := s.mcp.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("tool: mcp server stopped: %w", err)
	}
	return nil
}

// Health exposes the resilience executor's circuit/bulkhead snapshot for
// the HealthSummary surface named in SPEC_FULL §C.
func (s *Server) Health() resilience.HealthSummary {
	return s.executor.GetHealthSummary()
}
