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
	"sort"
	"strings"
	"sync"
)

// CategoryRepository is the repository over the Category table (§3.4).
// Categories have no vector column; lookups are name/ID only, so this
// repository never touches the engine.
type CategoryRepository struct {
	mu     sync.RWMutex
	rows   map[int32]CategoryRow
	byName map[string]int32
}

// NewCategoryRepository constructs an empty category repository.
func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{
		rows:   make(map[int32]CategoryRow),
		byName: make(map[string]int32),
	}
}

// Upsert creates the category row with ID id and name name, or updates the
// existing row with that ID, storing documentCount as given (callers
// compute it). An existing row keeps the Name it was created with.
func (r *CategoryRepository) Upsert(id int32, name string, documentCount int32) CategoryRow {
	normalized := strings.ToLower(strings.TrimSpace(name))

	r.mu.Lock()
	defer r.mu.Unlock()

	row, exists := r.rows[id]
	if !exists {
		row = CategoryRow{ID: id, Name: name}
	}
	row.DocumentCount = documentCount

	r.rows[id] = row
	r.byName[normalized] = id
	return row
}

// FindAll returns every category row, ascending by name.
func (r *CategoryRepository) FindAll() []CategoryRow {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]CategoryRow, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// FindByName looks up a category by its (case-insensitive) name.
func (r *CategoryRepository) FindByName(name string) (CategoryRow, bool) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName[normalized]
	if !ok {
		return CategoryRow{}, false
	}
	row, ok := r.rows[id]
	return row, ok
}

// FindByID returns the category row for id, if present.
func (r *CategoryRepository) FindByID(id int32) (CategoryRow, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	return row, ok
}

// CountRows returns the number of category rows.
func (r *CategoryRepository) CountRows() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}
