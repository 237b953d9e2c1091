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

// Package conceptsearch implements the concept-centric query model
// (§4.6): resolve a concept name to its catalog documents via
// concept.catalog_ids, then to the chunks mentioning it via
// chunk.concept_ids, never through a denormalized text column.
package conceptsearch

import (
	"context"
	"sort"
	"strings"

	"github.com/kadirpekel/retrieval-core/internal/resilience"
	"github.com/kadirpekel/retrieval-core/internal/store"
)

// SortBy selects the candidate ordering of §4.6 step 6.
type SortBy string

const (
	SortByDensity   SortBy = "density"
	SortByRelevance SortBy = "relevance"
	SortBySource    SortBy = "source"

	candidateOversample   = 2
	relatedConceptDisplay = 10
	densityTextUnit       = 500.0
	relevanceLengthFloor  = 300
)

// Request is the input to Search.
type Request struct {
	Concept      string
	Limit        int
	SourceFilter string
	SortBy       SortBy
}

// Result is the output of Search (§4.6 contract).
type Result struct {
	Concept         string
	Chunks          []store.ChunkRow
	RelatedConcepts []string
	TotalFound      int
	ConceptMetadata *store.ConceptRow
}

// Service implements searchConcept.
type Service struct {
	concepts *store.ConceptRepository
	chunks   *store.ChunkRepository
	catalog  *store.CatalogRepository
	exec     *resilience.Executor
}

// New constructs a Service.
func New(concepts *store.ConceptRepository, chunks *store.ChunkRepository, catalog *store.CatalogRepository, exec *resilience.Executor) *Service {
	return &Service{concepts: concepts, chunks: chunks, catalog: catalog, exec: exec}
}

// Search runs the seven-step algorithm of §4.6.
func (s *Service) Search(ctx context.Context, req Request) (Result, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}
	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = SortByDensity
	}

	lookupName := strings.ToLower(strings.TrimSpace(req.Concept))

	conceptResult, err := s.exec.Run(ctx, resilience.ProfileDatabase, "conceptsearch.find_by_name", func(ctx context.Context) (any, error) {
		row, ok := s.concepts.FindByName(lookupName)
		return rowOrNil{row: row, ok: ok}, nil
	})
	if err != nil {
		return Result{}, err
	}
	found := conceptResult.(rowOrNil)
	if !found.ok {
		return Result{Concept: req.Concept}, nil
	}
	concept := found.row

	related := s.relatedNames(concept, relatedConceptDisplay)

	candidatesResult, err := s.exec.Run(ctx, resilience.ProfileDatabase, "conceptsearch.find_chunks_by_concept", func(ctx context.Context) (any, error) {
		return s.chunks.FindByConceptName(s.concepts, lookupName, candidateOversample*limit), nil
	})
	if err != nil {
		return Result{}, err
	}
	candidates, _ := candidatesResult.([]store.ChunkRow)

	if req.SourceFilter != "" {
		candidates = filterBySource(candidates, s.catalog, req.SourceFilter)
	}

	sortCandidates(candidates, sortBy, concept.ID, s.catalog)

	totalFound := len(candidates)
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	metadata := concept
	return Result{
		Concept:         concept.Concept,
		Chunks:          candidates,
		RelatedConcepts: related,
		TotalFound:      totalFound,
		ConceptMetadata: &metadata,
	}, nil
}

type rowOrNil struct {
	row store.ConceptRow
	ok  bool
}

func (s *Service) relatedNames(concept store.ConceptRow, limit int) []string {
	ids := concept.RelatedConceptIDs
	if len(ids) > limit {
		ids = ids[:limit]
	}
	rows := s.concepts.FindByIDs(ids)
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Concept)
	}
	return out
}

func filterBySource(chunks []store.ChunkRow, catalog *store.CatalogRepository, sourceFilter string) []store.ChunkRow {
	needle := strings.ToLower(sourceFilter)
	out := make([]store.ChunkRow, 0, len(chunks))
	for _, c := range chunks {
		doc, ok := catalog.FindByID(c.CatalogID)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(doc.Filename), needle) {
			out = append(out, c)
		}
	}
	return out
}

func sortCandidates(chunks []store.ChunkRow, sortBy SortBy, conceptID int32, catalog *store.CatalogRepository) {
	switch sortBy {
	case SortBySource:
		sort.Slice(chunks, func(i, j int) bool {
			si, _ := catalog.FindByID(chunks[i].CatalogID)
			sj, _ := catalog.FindByID(chunks[j].CatalogID)
			if si.Filename != sj.Filename {
				return si.Filename < sj.Filename
			}
			return chunks[i].ID < chunks[j].ID
		})
	case SortByRelevance:
		sort.Slice(chunks, func(i, j int) bool {
			ri := relevanceScore(chunks[i], conceptID)
			rj := relevanceScore(chunks[j], conceptID)
			if ri != rj {
				return ri > rj
			}
			return chunks[i].ID < chunks[j].ID
		})
	default: // SortByDensity
		sort.Slice(chunks, func(i, j int) bool {
			di, dj := len(chunks[i].ConceptIDs), len(chunks[j].ConceptIDs)
			if di != dj {
				return di > dj
			}
			return chunks[i].ID < chunks[j].ID
		})
	}
}

// relevanceScore implements §4.6 step 6's relevance formula.
func relevanceScore(chunk store.ChunkRow, conceptID int32) float64 {
	normalizedDensity := float64(len(chunk.ConceptIDs)) / (float64(len(chunk.Text)) / densityTextUnit)
	if normalizedDensity > 1 {
		normalizedDensity = 1
	}

	containsConcept := 0.0
	for _, id := range chunk.ConceptIDs {
		if id == conceptID {
			containsConcept = 1.0
			break
		}
	}

	longEnough := 0.0
	if len(chunk.Text) >= relevanceLengthFloor {
		longEnough = 1.0
	}

	return 0.5*normalizedDensity + 0.3*containsConcept + 0.2*longEnough
}
