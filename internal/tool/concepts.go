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

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kadirpekel/retrieval-core/internal/conceptsearch"
)

func (s *Server) handleConceptSearch(ctx context.Context, _ *mcp.CallToolRequest, in ConceptSearchInput) (*mcp.CallToolResult, ConceptSearchOutput, error) {
	if err := requireNonEmpty("concept", in.Concept); err != nil {
		return nil, ConceptSearchOutput{}, err
	}

	result, err := s.conceptSearch.Search(ctx, conceptsearch.Request{
		Concept:      in.Concept,
		Limit:        in.Limit,
		SourceFilter: in.SourceFilter,
		SortBy:       conceptsearch.SortBy(in.SortBy),
	})
	if err != nil {
		return nil, ConceptSearchOutput{}, err
	}

	chunks := make([]ChunkHit, 0, len(result.Chunks))
	for _, c := range result.Chunks {
		chunks = append(chunks, ChunkHit{ID: c.ID, CatalogID: c.CatalogID, Text: c.Text, Loc: c.Loc})
	}
	return nil, ConceptSearchOutput{
		Concept:         result.Concept,
		Chunks:          chunks,
		RelatedConcepts: result.RelatedConcepts,
		TotalFound:      result.TotalFound,
	}, nil
}

// handleExtractConcepts derives primary_concepts, categories, and
// related_concepts for one document purely from stored IDs (§C): the
// union of its chunks' concept_ids, its own category_ids, and the
// related_concept_ids of those concepts — no re-extraction happens here.
func (s *Server) handleExtractConcepts(ctx context.Context, _ *mcp.CallToolRequest, in ExtractConceptsInput) (*mcp.CallToolResult, ExtractConceptsOutput, error) {
	if err := requireNonEmpty("source", in.Source); err != nil {
		return nil, ExtractConceptsOutput{}, err
	}

	doc, ok := s.store.Catalog.FindBySource(in.Source)
	if !ok {
		return nil, ExtractConceptsOutput{}, nil
	}

	chunks := s.store.Chunks.FindByCatalogID(doc.ID, 0)
	conceptIDs := aggregateConceptIDsByFrequency(chunks)
	primary := s.resolveConceptNames(conceptIDs)
	categories := s.categoryNames(doc.CategoryIDs)

	relatedIDs := make(map[int32]bool)
	for _, row := range s.store.Concepts.FindByIDs(conceptIDs) {
		for _, id := range row.RelatedConceptIDs {
			relatedIDs[id] = true
		}
	}
	for _, id := range conceptIDs {
		delete(relatedIDs, id)
	}
	ids := make([]int32, 0, len(relatedIDs))
	for id := range relatedIDs {
		ids = append(ids, id)
	}
	related := s.resolveConceptNames(ids)

	return nil, ExtractConceptsOutput{PrimaryConcepts: primary, Categories: categories, RelatedConcepts: related}, nil
}

// handleSourceConcepts aggregates one document's chunk.concept_ids,
// ranked by how many chunks mention each concept (§C).
func (s *Server) handleSourceConcepts(ctx context.Context, _ *mcp.CallToolRequest, in SourceConceptsInput) (*mcp.CallToolResult, SourceConceptsOutput, error) {
	if err := requireNonEmpty("source", in.Source); err != nil {
		return nil, SourceConceptsOutput{}, err
	}
	limit := clampLimit(in.Limit, 20, 0)

	doc, ok := s.store.Catalog.FindBySource(in.Source)
	if !ok {
		return nil, SourceConceptsOutput{}, nil
	}

	chunks := s.store.Chunks.FindByCatalogID(doc.ID, 0)
	ids := aggregateConceptIDsByFrequency(chunks)
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return nil, SourceConceptsOutput{Concepts: s.resolveConceptNames(ids)}, nil
}

// handleConceptSources resolves concept.catalog_ids to filenames (§C).
func (s *Server) handleConceptSources(ctx context.Context, _ *mcp.CallToolRequest, in ConceptSourcesInput) (*mcp.CallToolResult, ConceptSourcesOutput, error) {
	if err := requireNonEmpty("concept", in.Concept); err != nil {
		return nil, ConceptSourcesOutput{}, err
	}
	limit := clampLimit(in.Limit, 20, 0)

	concept, ok := s.store.Concepts.FindByName(in.Concept)
	if !ok {
		return nil, ConceptSourcesOutput{}, nil
	}

	catalogIDs := concept.CatalogIDs
	if len(catalogIDs) > limit {
		catalogIDs = catalogIDs[:limit]
	}
	docs := s.store.Catalog.FindByIDs(catalogIDs)
	sources := make([]string, 0, len(docs))
	for _, d := range docs {
		sources = append(sources, d.Filename)
	}
	return nil, ConceptSourcesOutput{Sources: sources}, nil
}
