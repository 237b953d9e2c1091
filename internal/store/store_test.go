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
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	engine, err := NewEngine(Config{})
	require.NoError(t, err)
	return &Store{
		Engine:     engine,
		Catalog:    NewCatalogRepository(engine),
		Chunks:     NewChunkRepository(engine),
		Concepts:   NewConceptRepository(engine),
		Categories: NewCategoryRepository(),
	}
}

func vec(f float32) []float32 {
	return []float32{f, 1 - f, 0.5}
}

func TestCatalogRepository_BulkInsertAndLookup(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	rows := []CatalogRow{
		{ID: 1, Filename: "a.txt", Text: "alpha", Vector: vec(0.1), CategoryIDs: []int32{10}},
		{ID: 2, Filename: "b.txt", Text: "beta", Vector: vec(0.2), CategoryIDs: []int32{10, 20}},
	}
	require.NoError(t, s.Catalog.BulkInsert(ctx, rows))

	require.Equal(t, 2, s.Catalog.CountRows())

	row, ok := s.Catalog.FindByID(1)
	require.True(t, ok)
	require.Equal(t, "a.txt", row.Filename)

	bySource, ok := s.Catalog.FindBySource("b.txt")
	require.True(t, ok)
	require.Equal(t, int32(2), bySource.ID)

	inCat10 := s.Catalog.FindByCategory(10)
	require.Len(t, inCat10, 2)

	inCat20 := s.Catalog.FindByCategory(20)
	require.Len(t, inCat20, 1)
	require.Equal(t, int32(2), inCat20[0].ID)
}

func TestCatalogRepository_DeleteByFilename(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Catalog.BulkInsert(ctx, []CatalogRow{
		{ID: 1, Filename: "a.txt", Text: "alpha", Vector: vec(0.1)},
	}))
	require.NoError(t, s.Catalog.DeleteByFilename(ctx, "a.txt"))

	_, ok := s.Catalog.FindByID(1)
	require.False(t, ok)
	require.Equal(t, 0, s.Catalog.CountRows())
}

func TestChunkRepository_FindByCatalogIDPreservesOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Chunks.BulkInsert(ctx, []ChunkRow{
		{ID: 101, CatalogID: 1, Text: "first", Vector: vec(0.1)},
		{ID: 102, CatalogID: 1, Text: "second", Vector: vec(0.2)},
		{ID: 103, CatalogID: 1, Text: "third", Vector: vec(0.3)},
	}))

	chunks := s.Chunks.FindByCatalogID(1, 0)
	require.Len(t, chunks, 3)
	require.Equal(t, []int32{101, 102, 103}, []int32{chunks[0].ID, chunks[1].ID, chunks[2].ID})

	limited := s.Chunks.FindByCatalogID(1, 2)
	require.Len(t, limited, 2)
}

func TestChunkRepository_DeleteByCatalogIDCascades(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Chunks.BulkInsert(ctx, []ChunkRow{
		{ID: 101, CatalogID: 1, Text: "first", Vector: vec(0.1)},
		{ID: 201, CatalogID: 2, Text: "other doc", Vector: vec(0.4)},
	}))
	require.NoError(t, s.Chunks.DeleteByCatalogID(ctx, 1))

	require.Equal(t, 1, s.Chunks.CountRows())
	_, ok := s.Chunks.FindByID(101)
	require.False(t, ok)
	_, ok = s.Chunks.FindByID(201)
	require.True(t, ok)
}

func TestChunkRepository_FindByConceptNameJoinsThroughConcept(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	concept, err := s.Concepts.Upsert(ctx, "Graph Theory", vec(0.5), 1)
	require.NoError(t, err)

	require.NoError(t, s.Chunks.BulkInsert(ctx, []ChunkRow{
		{ID: 101, CatalogID: 1, Text: "about graphs", Vector: vec(0.1), ConceptIDs: []int32{concept.ID}},
		{ID: 102, CatalogID: 1, Text: "unrelated", Vector: vec(0.2)},
	}))

	hits := s.Chunks.FindByConceptName(s.Concepts, "graph theory", 0)
	require.Len(t, hits, 1)
	require.Equal(t, int32(101), hits[0].ID)

	require.Empty(t, s.Chunks.FindByConceptName(s.Concepts, "does not exist", 0))
}

func TestConceptRepository_UpsertUnionsCatalogIDsAndRecomputesWeight(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first, err := s.Concepts.Upsert(ctx, "recursion", vec(0.1), 1)
	require.NoError(t, err)
	require.Equal(t, int32(1), first.Weight)
	require.Equal(t, []int32{1}, first.CatalogIDs)

	second, err := s.Concepts.Upsert(ctx, "Recursion", vec(0.1), 2)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID, "normalization must map to the same concept ID")
	require.Equal(t, int32(2), second.Weight)
	require.Equal(t, []int32{1, 2}, second.CatalogIDs)

	third, err := s.Concepts.Upsert(ctx, "recursion", vec(0.1), 1)
	require.NoError(t, err)
	require.Equal(t, int32(2), third.Weight, "re-mentioning an existing catalog ID must not inflate weight")
}

func TestConceptRepository_FindByNameAndRelated(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a, err := s.Concepts.Upsert(ctx, "stacks", vec(0.1), 1)
	require.NoError(t, err)
	b, err := s.Concepts.Upsert(ctx, "queues", vec(0.2), 1)
	require.NoError(t, err)

	require.NoError(t, s.Concepts.SetEnrichment(ctx, a.ID, []int32{b.ID}, nil, nil, nil))

	related := s.Concepts.FindRelated("stacks", 0)
	require.Len(t, related, 1)
	require.Equal(t, b.ID, related[0].ID)

	_, ok := s.Concepts.FindByName("unknown concept")
	require.False(t, ok)
}

func TestCategoryRepository_UpsertAndFind(t *testing.T) {
	s := newTestStore(t)

	s.Categories.Upsert(1, "Algorithms", 3)
	s.Categories.Upsert(2, "Databases", 1)

	all := s.Categories.FindAll()
	require.Len(t, all, 2)
	require.Equal(t, "Algorithms", all[0].Name, "FindAll must sort ascending by name")

	row, ok := s.Categories.FindByName("algorithms")
	require.True(t, ok, "category lookup must be case-insensitive")
	require.Equal(t, int32(3), row.DocumentCount)
}

func TestStore_SnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := NewStore(ctx, Config{PersistPath: dir})
	require.NoError(t, err)

	require.NoError(t, s.Catalog.BulkInsert(ctx, []CatalogRow{
		{ID: 1, Filename: "a.txt", Text: "alpha", Vector: vec(0.1), CategoryIDs: []int32{10}},
	}))
	require.NoError(t, s.Chunks.BulkInsert(ctx, []ChunkRow{
		{ID: 101, CatalogID: 1, Text: "alpha chunk", Vector: vec(0.2)},
	}))
	_, err = s.Concepts.Upsert(ctx, "alpha concept", vec(0.3), 1)
	require.NoError(t, err)
	s.Categories.Upsert(10, "Greek Letters", 1)

	require.NoError(t, s.Close())

	reopened, err := NewStore(ctx, Config{PersistPath: dir})
	require.NoError(t, err)

	require.Equal(t, 1, reopened.Catalog.CountRows())
	require.Equal(t, 1, reopened.Chunks.CountRows())
	require.Equal(t, 1, reopened.Concepts.CountRows())
	require.Equal(t, 1, reopened.Categories.CountRows())

	row, ok := reopened.Catalog.FindBySource("a.txt")
	require.True(t, ok)
	require.Equal(t, []int32{10}, row.CategoryIDs)

	cat, ok := reopened.Categories.FindByName("greek letters")
	require.True(t, ok)
	require.Equal(t, int32(1), cat.DocumentCount)
}
