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

// Package search implements the hybrid scoring engine (§4.5): vector
// similarity, BM25, title match, corpus-concept overlap, and
// lexical-ontology overlap combined into one ranking, driven by the
// query expander's weighted terms.
package search

import (
	"context"
	"fmt"
	"sort"

	"github.com/kadirpekel/retrieval-core/internal/embedding"
	"github.com/kadirpekel/retrieval-core/internal/expand"
	"github.com/kadirpekel/retrieval-core/internal/resilience"
	"github.com/kadirpekel/retrieval-core/internal/store"
	"github.com/kadirpekel/retrieval-core/internal/vectorutil"
)

// Table names accepted by Search.
const (
	TableCatalog = "catalog"
	TableChunks  = "chunks"
)

// The fixed weight vector, part of the public contract (§4.5 step 5).
const (
	weightVector  = 0.25
	weightBM25    = 0.25
	weightTitle   = 0.20
	weightConcept = 0.20
	weightWordnet = 0.10

	candidateOversample = 3
)

// Candidate is a uniform view over a catalog or chunk row sufficient for
// scoring: catalog rows have no concept_ids column of their own, so
// Service resolves a document's effective concept set as the union of
// its chunks' concept_ids (see resolveDocumentConceptIDs).
type Candidate struct {
	ID         int32
	Source     string
	Text       string
	Vector     []float32
	ConceptIDs []int32
	Distance   float32
}

// Result is one scored candidate, with the five per-signal scores
// attached when Debug is requested.
type Result struct {
	Candidate
	HybridScore float64

	VectorScore  float64
	BM25Score    float64
	TitleScore   float64
	ConceptScore float64
	WordnetScore float64

	MatchedConcepts []string
}

// DebugInfo is attached to a Response when Debug is requested (§4.5 step 7).
type DebugInfo struct {
	ExpandedTerms []string
}

// Response is Service.Search's return value.
type Response struct {
	Results []Result
	Debug   *DebugInfo
}

// Service implements the hybrid search contract of §4.5.
type Service struct {
	catalog  *store.CatalogRepository
	chunks   *store.ChunkRepository
	concepts *store.ConceptRepository
	expander *expand.Expander
	embedder embedding.Embedder
	exec     *resilience.Executor
}

// New constructs a Service over the given repositories and collaborators.
func New(catalog *store.CatalogRepository, chunks *store.ChunkRepository, concepts *store.ConceptRepository, expander *expand.Expander, embedder embedding.Embedder, exec *resilience.Executor) *Service {
	return &Service{catalog: catalog, chunks: chunks, concepts: concepts, expander: expander, embedder: embedder, exec: exec}
}

// Search runs the six-step algorithm of §4.5 against table ("catalog" or
// "chunks"), returning the top limit results.
func (s *Service) Search(ctx context.Context, table, query string, limit int, debug bool) (Response, error) {
	if table != TableCatalog && table != TableChunks {
		return Response{}, fmt.Errorf("search: unknown table %q", table)
	}
	if limit <= 0 {
		limit = 10
	}

	qvec, err := s.embedQuery(ctx, query)
	if err != nil {
		return Response{}, err
	}

	hitsResult, err := s.exec.Run(ctx, resilience.ProfileSearch, "search."+table+".vector_search", func(ctx context.Context) (any, error) {
		if table == TableCatalog {
			return s.catalog.VectorSearch(ctx, qvec, limit*candidateOversample)
		}
		return s.chunks.VectorSearch(ctx, qvec, limit*candidateOversample)
	})
	if err != nil {
		return Response{}, fmt.Errorf("search: vector search: %w", err)
	}
	hits, _ := hitsResult.([]store.SearchHit)

	candidates := s.buildCandidates(table, hits)
	return s.rank(ctx, query, candidates, limit, debug)
}

// RankCandidates scores and ranks a caller-supplied candidate set against
// query, skipping the vector-search step: used by orchestrators that
// already scoped their candidates some other way (e.g. to one document's
// chunks) but still want the same five-signal hybrid scoring. Each
// candidate's Distance is computed here from the query embedding, since
// it did not come from a repository's VectorSearch.
func (s *Service) RankCandidates(ctx context.Context, query string, candidates []Candidate, limit int, debug bool) (Response, error) {
	if limit <= 0 {
		limit = 10
	}
	qvec, err := s.embedQuery(ctx, query)
	if err != nil {
		return Response{}, err
	}
	for i := range candidates {
		candidates[i].Distance = vectorutil.CosineDistance(qvec, candidates[i].Vector)
	}
	return s.rank(ctx, query, candidates, limit, debug)
}

func (s *Service) embedQuery(ctx context.Context, query string) ([]float32, error) {
	qvecResult, err := s.exec.Run(ctx, resilience.ProfileEmbedding, "search.embed_query", func(ctx context.Context) (any, error) {
		return s.embedder.Embed(ctx, query)
	})
	if err != nil {
		return nil, fmt.Errorf("search: embed query: %w", err)
	}
	qvec, _ := qvecResult.([]float32)
	return qvec, nil
}

func (s *Service) rank(ctx context.Context, query string, candidates []Candidate, limit int, debug bool) (Response, error) {
	expanded := s.expander.Expand(ctx, query)

	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, s.score(c, expanded))
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].HybridScore != results[j].HybridScore {
			return results[i].HybridScore > results[j].HybridScore
		}
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].ID < results[j].ID
	})

	if len(results) > limit {
		results = results[:limit]
	}

	resp := Response{Results: results}
	if debug {
		terms := expanded.AllTerms
		if len(terms) > 10 {
			terms = terms[:10]
		}
		resp.Debug = &DebugInfo{ExpandedTerms: terms}
	}
	return resp, nil
}

func (s *Service) buildCandidates(table string, hits []store.SearchHit) []Candidate {
	out := make([]Candidate, 0, len(hits))
	for _, hit := range hits {
		switch table {
		case TableCatalog:
			row, ok := s.catalog.FindByID(hit.ID)
			if !ok {
				continue
			}
			out = append(out, Candidate{
				ID: row.ID, Source: row.Filename, Text: row.Text, Vector: row.Vector,
				ConceptIDs: s.resolveDocumentConceptIDs(row.ID), Distance: hit.Distance,
			})
		case TableChunks:
			row, ok := s.chunks.FindByID(hit.ID)
			if !ok {
				continue
			}
			source := ""
			if doc, ok := s.catalog.FindByID(row.CatalogID); ok {
				source = doc.Filename
			}
			out = append(out, Candidate{
				ID: row.ID, Source: source, Text: row.Text, Vector: row.Vector,
				ConceptIDs: row.ConceptIDs, Distance: hit.Distance,
			})
		}
	}
	return out
}

// resolveDocumentConceptIDs aggregates a document's concept_ids as the
// union over its chunks' concept_ids; §3.1 defines no such column
// directly on the catalog row, but §4.5's concept_score signal applies
// uniformly to catalog and chunk candidates, so a document's effective
// concept set is derived the same way GetConceptsInCategory aggregates
// per-category (§4.3).
func (s *Service) resolveDocumentConceptIDs(catalogID int32) []int32 {
	var union []int32
	for _, c := range s.chunks.FindByCatalogID(catalogID, 0) {
		union = unionInt32(union, c.ConceptIDs)
	}
	return union
}

func unionInt32(a, b []int32) []int32 {
	seen := make(map[int32]struct{}, len(a)+len(b))
	out := make([]int32, 0, len(a)+len(b))
	for _, x := range append(append([]int32{}, a...), b...) {
		if _, dup := seen[x]; dup {
			continue
		}
		seen[x] = struct{}{}
		out = append(out, x)
	}
	return out
}
