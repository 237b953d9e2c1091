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
	"sync"
)

const chunkCollection = "chunks"

// ChunkRepository is the repository over the Chunk table (§3.2, §4.3). It
// maintains a secondary index from catalog_id to chunk IDs so
// FindByCatalogID and the concept-search join never scan the table.
type ChunkRepository struct {
	engine *Engine

	mu          sync.RWMutex
	rows        map[int32]ChunkRow
	byCatalogID map[int32][]int32
}

// NewChunkRepository constructs a repository backed by engine.
func NewChunkRepository(engine *Engine) *ChunkRepository {
	return &ChunkRepository{
		engine:      engine,
		rows:        make(map[int32]ChunkRow),
		byCatalogID: make(map[int32][]int32),
	}
}

// BulkInsert writes rows, replacing any existing row with the same ID.
func (r *ChunkRepository) BulkInsert(ctx context.Context, rows []ChunkRow) error {
	for _, row := range rows {
		if err := r.engine.Put(ctx, chunkCollection, rowKey(row.ID), row.Text, row.Vector, nil); err != nil {
			return err
		}
		r.mu.Lock()
		if old, exists := r.rows[row.ID]; exists {
			r.byCatalogID[old.CatalogID] = removeInt32(r.byCatalogID[old.CatalogID], old.ID)
		}
		r.rows[row.ID] = row
		r.byCatalogID[row.CatalogID] = append(r.byCatalogID[row.CatalogID], row.ID)
		r.mu.Unlock()
	}
	return nil
}

// DeleteByCatalogID removes every chunk owned by catalogID, implementing
// the cascade delete of §3.5 ("A Document owns its Chunks").
func (r *ChunkRepository) DeleteByCatalogID(ctx context.Context, catalogID int32) error {
	r.mu.Lock()
	ids := r.byCatalogID[catalogID]
	delete(r.byCatalogID, catalogID)
	for _, id := range ids {
		delete(r.rows, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		if err := r.engine.Delete(ctx, chunkCollection, rowKey(id)); err != nil {
			return err
		}
	}
	return nil
}

// CountRows returns the number of chunk rows.
func (r *ChunkRepository) CountRows() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}

// FindByID returns the chunk row for id, if present.
func (r *ChunkRepository) FindByID(id int32) (ChunkRow, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	return row, ok
}

// FindByIDs returns the chunk rows for ids, skipping any that are missing.
func (r *ChunkRepository) FindByIDs(ids []int32) []ChunkRow {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ChunkRow, 0, len(ids))
	for _, id := range ids {
		if row, ok := r.rows[id]; ok {
			out = append(out, row)
		}
	}
	return out
}

// FindByCatalogID returns every chunk owned by catalogID, in insertion
// (ordinal) order, capped at limit (0 means unlimited).
func (r *ChunkRepository) FindByCatalogID(catalogID int32, limit int) []ChunkRow {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byCatalogID[catalogID]
	out := make([]ChunkRow, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.rows[id])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// FindByConceptName resolves name -> concept -> catalog_ids via
// conceptRepo, then returns up to limit chunks whose catalog_id is among
// those documents and whose concept_ids contains the concept's ID. This
// is the join §4.6 depends on; it is forbidden to instead match a
// denormalized text-concept column (§4.6, §9).
func (r *ChunkRepository) FindByConceptName(concepts *ConceptRepository, name string, limit int) []ChunkRow {
	concept, ok := concepts.FindByName(name)
	if !ok {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []ChunkRow
	for _, catalogID := range concept.CatalogIDs {
		for _, chunkID := range r.byCatalogID[catalogID] {
			row := r.rows[chunkID]
			if containsInt32(row.ConceptIDs, concept.ID) {
				out = append(out, row)
				if limit > 0 && len(out) >= limit {
					return out
				}
			}
		}
	}
	return out
}

// FindBySource returns the chunks belonging to the document named
// filename, via catalogRepo's filename index, capped at limit.
func (r *ChunkRepository) FindBySource(catalog *CatalogRepository, filename string, limit int) []ChunkRow {
	doc, ok := catalog.FindBySource(filename)
	if !ok {
		return nil
	}
	return r.FindByCatalogID(doc.ID, limit)
}

// VectorSearch runs an ANN search over chunk text.
func (r *ChunkRepository) VectorSearch(ctx context.Context, vector []float32, limit int) ([]SearchHit, error) {
	return r.engine.VectorSearch(ctx, chunkCollection, vector, limit)
}
