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

// Package categorysearch is the thin orchestrator behind the
// category_search and list_categories tools (§6.1): category rows carry
// no vector column, so there is no hybrid scoring here, only repository
// lookups and the same concept aggregation §4.3 already defines for
// GetConceptsInCategory.
package categorysearch

import (
	"context"

	"github.com/kadirpekel/retrieval-core/internal/apierrors"
	"github.com/kadirpekel/retrieval-core/internal/store"
)

// Result is the output of Search (category_search).
type Result struct {
	Category   store.CategoryRow
	Documents  []store.CatalogRow
	ConceptIDs []int32
}

// Service answers category_search and list_categories.
type Service struct {
	categories *store.CategoryRepository
	catalog    *store.CatalogRepository
	chunks     *store.ChunkRepository
}

// New constructs a Service.
func New(categories *store.CategoryRepository, catalog *store.CatalogRepository, chunks *store.ChunkRepository) *Service {
	return &Service{categories: categories, catalog: catalog, chunks: chunks}
}

// ListCategories answers list_categories: every category row, ascending
// by name.
func (s *Service) ListCategories(_ context.Context) []store.CategoryRow {
	return s.categories.FindAll()
}

// Search answers category_search: the documents filed under name and the
// union of concepts those documents mention.
func (s *Service) Search(_ context.Context, name string) (Result, error) {
	category, ok := s.categories.FindByName(name)
	if !ok {
		return Result{}, &apierrors.NotFoundError{Kind: "category", Key: name}
	}

	docs := s.catalog.FindByCategory(category.ID)
	concepts := s.catalog.GetConceptsInCategory(s.chunks, category.ID)

	return Result{Category: category, Documents: docs, ConceptIDs: concepts}, nil
}
