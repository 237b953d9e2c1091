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

// Package tool implements the MCP tool handlers of §6.1: thin request
// validation plus dispatch into the search/ingest services, mapping
// NotFoundError to a well-formed empty result rather than isError:true.
package tool

import "github.com/kadirpekel/retrieval-core/internal/search"

// CatalogHit is one scored document row.
type CatalogHit struct {
	ID       int32   `json:"id"`
	Filename string  `json:"filename"`
	Title    string  `json:"title,omitempty"`
	Score    float64 `json:"score"`
}

// ChunkHit is one scored chunk row.
type ChunkHit struct {
	ID        int32   `json:"id"`
	CatalogID int32   `json:"catalog_id"`
	Source    string  `json:"source,omitempty"`
	Text      string  `json:"text"`
	Loc       string  `json:"loc,omitempty"`
	Score     float64 `json:"score"`
}

// CategoryHit is one taxonomy row.
type CategoryHit struct {
	Name          string `json:"name"`
	DocumentCount int32  `json:"document_count"`
}

// DebugOutput is attached when a search tool's debug flag is set (§4.5 step 7).
type DebugOutput struct {
	ExpandedTerms []string `json:"expanded_terms,omitempty"`
}

// CatalogSearchInput is catalog_search's input schema (§6.1).
type CatalogSearchInput struct {
	Text  string `json:"text" jsonschema:"the natural-language query"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum results, capped at 20, default 10"`
	Debug bool   `json:"debug,omitempty" jsonschema:"attach the first 10 expanded query terms; per-signal scores and matched concepts are not included"`
}

// CatalogSearchOutput is catalog_search's output schema.
type CatalogSearchOutput struct {
	Results []CatalogHit `json:"results"`
	Debug   *DebugOutput `json:"debug,omitempty"`
}

// ChunksSearchInput is chunks_search's input schema: scoped to one document.
type ChunksSearchInput struct {
	Text   string `json:"text" jsonschema:"the natural-language query"`
	Source string `json:"source" jsonschema:"the document filename to search within"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum results, default 10"`
}

// ChunksSearchOutput is chunks_search's output schema.
type ChunksSearchOutput struct {
	Results []ChunkHit `json:"results"`
}

// BroadChunksSearchInput is broad_chunks_search's input schema: corpus-wide.
type BroadChunksSearchInput struct {
	Text  string `json:"text" jsonschema:"the natural-language query"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum results, default 10"`
	Debug bool   `json:"debug,omitempty" jsonschema:"attach the first 10 expanded query terms; per-signal scores and matched concepts are not included"`
}

// BroadChunksSearchOutput is broad_chunks_search's output schema.
type BroadChunksSearchOutput struct {
	Results []ChunkHit   `json:"results"`
	Debug   *DebugOutput `json:"debug,omitempty"`
}

// ConceptSearchInput is concept_search's input schema (§4.6).
type ConceptSearchInput struct {
	Concept      string `json:"concept" jsonschema:"the concept name to look up"`
	Limit        int    `json:"limit,omitempty" jsonschema:"maximum chunks, default 10"`
	SourceFilter string `json:"source_filter,omitempty" jsonschema:"restrict results to filenames containing this substring"`
	SortBy       string `json:"sort_by,omitempty" jsonschema:"density, relevance, or source; default density"`
}

// ConceptSearchOutput is concept_search's output schema.
type ConceptSearchOutput struct {
	Concept         string     `json:"concept"`
	Chunks          []ChunkHit `json:"chunks"`
	RelatedConcepts []string   `json:"related_concepts,omitempty"`
	TotalFound      int        `json:"total_found"`
}

// ExtractConceptsInput is extract_concepts's input schema.
type ExtractConceptsInput struct {
	Source string `json:"source" jsonschema:"the document filename"`
}

// ExtractConceptsOutput is extract_concepts's output schema.
type ExtractConceptsOutput struct {
	PrimaryConcepts []string `json:"primary_concepts"`
	Categories      []string `json:"categories"`
	RelatedConcepts []string `json:"related_concepts"`
}

// SourceConceptsInput is source_concepts's input schema.
type SourceConceptsInput struct {
	Source string `json:"source" jsonschema:"the document filename"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum concepts, default 20"`
}

// SourceConceptsOutput is source_concepts's output schema.
type SourceConceptsOutput struct {
	Concepts []string `json:"concepts"`
}

// ConceptSourcesInput is concept_sources's input schema.
type ConceptSourcesInput struct {
	Concept string `json:"concept" jsonschema:"the concept name"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum documents, default 20"`
}

// ConceptSourcesOutput is concept_sources's output schema.
type ConceptSourcesOutput struct {
	Sources []string `json:"sources"`
}

// CategorySearchInput is category_search's input schema.
type CategorySearchInput struct {
	Name string `json:"name" jsonschema:"the category name"`
}

// CategorySearchOutput is category_search's output schema.
type CategorySearchOutput struct {
	Category  CategoryHit `json:"category"`
	Documents []string    `json:"documents"`
	Concepts  []string    `json:"concepts"`
}

// ListCategoriesInput is list_categories's (empty) input schema.
type ListCategoriesInput struct{}

// ListCategoriesOutput is list_categories's output schema.
type ListCategoriesOutput struct {
	Categories []CategoryHit `json:"categories"`
}

func toCatalogHits(results []search.Result) []CatalogHit {
	out := make([]CatalogHit, 0, len(results))
	for _, r := range results {
		out = append(out, CatalogHit{ID: r.ID, Filename: r.Source, Score: r.HybridScore})
	}
	return out
}

func toChunkHitsFromResults(results []search.Result) []ChunkHit {
	out := make([]ChunkHit, 0, len(results))
	for _, r := range results {
		out = append(out, ChunkHit{ID: r.ID, Source: r.Source, Text: r.Text, Score: r.HybridScore})
	}
	return out
}

func toDebugOutput(d *search.DebugInfo) *DebugOutput {
	if d == nil {
		return nil
	}
	return &DebugOutput{ExpandedTerms: d.ExpandedTerms}
}
