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

// Package chunksearch is the thin orchestrator behind the chunks_search
// and broad_chunks_search tools (§6.1). broad_chunks_search delegates
// straight to the hybrid search service over the chunks table;
// chunks_search additionally scopes candidates to one document before
// scoring, since the vector-search step alone has no notion of "within
// one source".
package chunksearch

import (
	"context"
	"fmt"

	"github.com/kadirpekel/retrieval-core/internal/apierrors"
	"github.com/kadirpekel/retrieval-core/internal/search"
	"github.com/kadirpekel/retrieval-core/internal/store"
)

// Service answers chunks_search and broad_chunks_search.
type Service struct {
	hybrid  *search.Service
	catalog *store.CatalogRepository
	chunks  *store.ChunkRepository
}

// New constructs a Service.
func New(hybrid *search.Service, catalog *store.CatalogRepository, chunks *store.ChunkRepository) *Service {
	return &Service{hybrid: hybrid, catalog: catalog, chunks: chunks}
}

// BroadSearch answers broad_chunks_search: top-k chunks across the
// entire corpus.
func (s *Service) BroadSearch(ctx context.Context, text string, limit int, debug bool) (search.Response, error) {
	return s.hybrid.Search(ctx, search.TableChunks, text, limit, debug)
}

// SearchWithinSource answers chunks_search: top-k chunks within one
// document named source.
func (s *Service) SearchWithinSource(ctx context.Context, text, source string, limit int) (search.Response, error) {
	doc, ok := s.catalog.FindBySource(source)
	if !ok {
		return search.Response{}, &apierrors.NotFoundError{Kind: "document", Key: source}
	}

	rows := s.chunks.FindByCatalogID(doc.ID, 0)
	candidates := make([]search.Candidate, 0, len(rows))
	for _, r := range rows {
		candidates = append(candidates, search.Candidate{
			ID: r.ID, Source: doc.Filename, Text: r.Text, Vector: r.Vector, ConceptIDs: r.ConceptIDs,
		})
	}
	if len(candidates) == 0 {
		return search.Response{}, nil
	}

	resp, err := s.hybrid.RankCandidates(ctx, text, candidates, limit, false)
	if err != nil {
		return search.Response{}, fmt.Errorf("chunksearch: rank within source %q: %w", source, err)
	}
	return resp, nil
}
