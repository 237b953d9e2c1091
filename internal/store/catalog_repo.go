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
	"strconv"
	"sync"
)

const catalogCollection = "catalog"

// CatalogRepository is the repository over the Document table (§3.1,
// §4.3).
//
// Row data is kept authoritatively in an in-memory map, written at the
// same time as the vector is indexed into the embedded vector engine;
// this keeps every non-vector lookup (by ID, by filename, by category) an
// O(1) or indexed-map operation rather than a table scan, satisfying
// §4.3's "MUST NOT load entire tables to filter in memory". Ingestion is
// a single-writer offline epoch (§1 Non-goals), so this cache never needs
// to reconcile concurrent writers.
type CatalogRepository struct {
	engine *Engine

	mu         sync.RWMutex
	rows       map[int32]CatalogRow
	byFilename map[string]int32
	byCategory map[int32][]int32 // category ID -> catalog IDs, for FindByCategory
}

// NewCatalogRepository constructs a repository backed by engine.
func NewCatalogRepository(engine *Engine) *CatalogRepository {
	return &CatalogRepository{
		engine:     engine,
		rows:       make(map[int32]CatalogRow),
		byFilename: make(map[string]int32),
		byCategory: make(map[int32][]int32),
	}
}

func rowKey(id int32) string { return strconv.FormatInt(int64(id), 10) }

// BulkInsert writes rows, replacing any existing row with the same ID.
func (r *CatalogRepository) BulkInsert(ctx context.Context, rows []CatalogRow) error {
	for _, row := range rows {
		if err := r.engine.Put(ctx, catalogCollection, rowKey(row.ID), row.Text, row.Vector, nil); err != nil {
			return err
		}
		r.mu.Lock()
		if old, exists := r.rows[row.ID]; exists {
			r.unindexCategoriesLocked(old.ID, old.CategoryIDs)
		}
		r.rows[row.ID] = row
		r.byFilename[row.Filename] = row.ID
		for _, catID := range row.CategoryIDs {
			r.byCategory[catID] = appendUnique(r.byCategory[catID], row.ID)
		}
		r.mu.Unlock()
	}
	return nil
}

// DeleteByFilename removes the catalog row for filename, if present.
// Callers are responsible for cascading the delete to the chunks table
// (§3.5 ownership).
func (r *CatalogRepository) DeleteByFilename(ctx context.Context, filename string) error {
	r.mu.Lock()
	id, ok := r.byFilename[filename]
	if ok {
		r.unindexCategoriesLocked(id, r.rows[id].CategoryIDs)
		delete(r.rows, id)
		delete(r.byFilename, filename)
	}
	r.mu.Unlock()
	if !ok {
		return nil
	}
	return r.engine.Delete(ctx, catalogCollection, rowKey(id))
}

// unindexCategoriesLocked removes id from every byCategory bucket named
// in catIDs. Callers must hold r.mu.
func (r *CatalogRepository) unindexCategoriesLocked(id int32, catIDs []int32) {
	for _, catID := range catIDs {
		r.byCategory[catID] = removeInt32(r.byCategory[catID], id)
	}
}

// CountRows returns the number of catalog rows.
func (r *CatalogRepository) CountRows() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}

// FindByID returns the catalog row for id, if present.
func (r *CatalogRepository) FindByID(id int32) (CatalogRow, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	return row, ok
}

// FindByIDs returns the catalog rows for the given ids, skipping any that
// are missing.
func (r *CatalogRepository) FindByIDs(ids []int32) []CatalogRow {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]CatalogRow, 0, len(ids))
	for _, id := range ids {
		if row, ok := r.rows[id]; ok {
			out = append(out, row)
		}
	}
	return out
}

// FindBySource returns the catalog row for filename, if present.
func (r *CatalogRepository) FindBySource(filename string) (CatalogRow, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byFilename[filename]
	if !ok {
		return CatalogRow{}, false
	}
	row, ok := r.rows[id]
	return row, ok
}

// FindByCategory returns every catalog row whose CategoryIDs contains catID.
func (r *CatalogRepository) FindByCategory(catID int32) []CatalogRow {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byCategory[catID]
	out := make([]CatalogRow, 0, len(ids))
	for _, id := range ids {
		if row, ok := r.rows[id]; ok {
			out = append(out, row)
		}
	}
	return out
}

// VectorSearch runs an ANN search over catalog summaries.
func (r *CatalogRepository) VectorSearch(ctx context.Context, vector []float32, limit int) ([]SearchHit, error) {
	return r.engine.VectorSearch(ctx, catalogCollection, vector, limit)
}

// GetConceptsInCategory aggregates the union of chunk.concept_ids over
// every document filed under catID (§4.3's Catalog finder).
func (r *CatalogRepository) GetConceptsInCategory(chunks *ChunkRepository, catID int32) []int32 {
	var union []int32
	for _, d := range r.FindByCategory(catID) {
		for _, c := range chunks.FindByCatalogID(d.ID, 0) {
			union = unionSortedInt32(union, c.ConceptIDs)
		}
	}
	return union
}
