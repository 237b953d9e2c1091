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

package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/kadirpekel/retrieval-core/internal/ids"
)

const conceptCollection = "concepts"

// ConceptRepository is the repository over the Concept table (§3.3,
// §4.3). It is the only table written by concurrent ingestion workers
// (§5): Upsert serializes read-modify-write per concept ID through a
// keyed mutex so two documents that share a concept never race on its
// catalog_ids/weight, while unrelated concepts upsert in parallel.
type ConceptRepository struct {
	engine *Engine
	locks  *keyedMutex

	mu        sync.RWMutex
	rows      map[int32]ConceptRow
	byName    map[string]int32 // normalized concept -> ID
	byPrefix  map[byte][]int32 // first normalized byte -> IDs, for searchConcepts prefix match
}

// NewConceptRepository constructs a repository backed by engine.
func NewConceptRepository(engine *Engine) *ConceptRepository {
	return &ConceptRepository{
		engine:   engine,
		locks:    newKeyedMutex(),
		rows:     make(map[int32]ConceptRow),
		byName:   make(map[string]int32),
		byPrefix: make(map[byte][]int32),
	}
}

// Upsert merges the mention of concept in catalogID: a new row is created
// if none exists, otherwise catalogID is unioned into CatalogIDs and
// Weight recomputed. The caller supplies the concept's display form and
// embedding; RelatedConceptIDs/Synonyms/BroaderTerms/NarrowerTerms are
// left to the ingestion pipeline's separate enrichment step.
func (r *ConceptRepository) Upsert(ctx context.Context, concept string, vector []float32, catalogID int32) (ConceptRow, error) {
	normalized := ids.NormalizeConcept(concept)
	id := ids.HashToID(normalized)

	unlock := r.locks.Lock(id)
	defer unlock()

	r.mu.Lock()
	row, exists := r.rows[id]
	r.mu.Unlock()

	if !exists {
		row = ConceptRow{ID: id, Concept: concept, Vector: vector}
	}
	row.CatalogIDs = unionSortedInt32(row.CatalogIDs, []int32{catalogID})
	row.Weight = int32(len(row.CatalogIDs))
	if len(vector) > 0 {
		row.Vector = vector
	}

	if err := r.engine.Put(ctx, conceptCollection, rowKey(id), row.Concept, row.Vector, nil); err != nil {
		return ConceptRow{}, err
	}

	r.mu.Lock()
	r.rows[id] = row
	r.byName[normalized] = id
	if len(normalized) > 0 {
		r.byPrefix[normalized[0]] = appendUnique(r.byPrefix[normalized[0]], id)
	}
	r.mu.Unlock()

	return row, nil
}

// SetEnrichment replaces RelatedConceptIDs/Synonyms/BroaderTerms/NarrowerTerms
// for an already-upserted concept, used by the corpus-co-occurrence and
// ontology-enrichment steps of §4.7.
func (r *ConceptRepository) SetEnrichment(ctx context.Context, id int32, related []int32, synonyms, broader, narrower []string) error {
	unlock := r.locks.Lock(id)
	defer unlock()

	r.mu.Lock()
	row, ok := r.rows[id]
	r.mu.Unlock()
	if !ok {
		return nil
	}
	row.RelatedConceptIDs = related
	row.Synonyms = synonyms
	row.BroaderTerms = broader
	row.NarrowerTerms = narrower

	r.mu.Lock()
	r.rows[id] = row
	r.mu.Unlock()
	return nil
}

// CountRows returns the number of concept rows.
func (r *ConceptRepository) CountRows() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}

// FindByID returns the concept row for id, if present.
func (r *ConceptRepository) FindByID(id int32) (ConceptRow, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	return row, ok
}

// FindByIDs returns the concept rows for ids, skipping any that are missing.
func (r *ConceptRepository) FindByIDs(ids []int32) []ConceptRow {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ConceptRow, 0, len(ids))
	for _, id := range ids {
		if row, ok := r.rows[id]; ok {
			out = append(out, row)
		}
	}
	return out
}

// FindByName looks up a concept by its display or raw form; the caller is
// expected to have lowercased/trimmed as needed (§4.6 step 1), but
// FindByName itself normalizes defensively.
func (r *ConceptRepository) FindByName(name string) (ConceptRow, bool) {
	normalized := ids.NormalizeConcept(name)
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName[normalized]
	if !ok {
		return ConceptRow{}, false
	}
	row, ok := r.rows[id]
	return row, ok
}

// SearchConcepts combines a vector search (via engine) with a prefix match
// over normalized concept names, merging and capping at limit.
func (r *ConceptRepository) SearchConcepts(ctx context.Context, queryVector []float32, queryText string, limit int) ([]ConceptRow, error) {
	seen := make(map[int32]struct{})
	var out []ConceptRow

	hits, err := r.engine.VectorSearch(ctx, conceptCollection, queryVector, limit)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	for _, h := range hits {
		if row, ok := r.rows[h.ID]; ok {
			out = append(out, row)
			seen[h.ID] = struct{}{}
		}
	}

	normalizedQuery := ids.NormalizeConcept(queryText)
	if normalizedQuery != "" {
		for _, id := range r.byPrefix[normalizedQuery[0]] {
			if len(out) >= limit {
				break
			}
			if _, dup := seen[id]; dup {
				continue
			}
			row, ok := r.rows[id]
			if !ok {
				continue
			}
			if strings.HasPrefix(ids.NormalizeConcept(row.Concept), normalizedQuery) {
				out = append(out, row)
				seen[id] = struct{}{}
			}
		}
	}
	r.mu.RUnlock()

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// FindRelated returns up to limit concept rows named by the concept's
// RelatedConceptIDs.
func (r *ConceptRepository) FindRelated(name string, limit int) []ConceptRow {
	concept, ok := r.FindByName(name)
	if !ok {
		return nil
	}
	ids := concept.RelatedConceptIDs
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return r.FindByIDs(ids)
}

// AllSortedByWeight returns every concept row, descending by Weight then
// ascending by ID, for rebuild/debug tooling.
func (r *ConceptRepository) AllSortedByWeight() []ConceptRow {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ConceptRow, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func appendUnique(ids []int32, id int32) []int32 {
	if containsInt32(ids, id) {
		return ids
	}
	return append(ids, id)
}
