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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/retrieval-core/internal/apierrors"
	"github.com/kadirpekel/retrieval-core/internal/catalogsearch"
	"github.com/kadirpekel/retrieval-core/internal/categorysearch"
	"github.com/kadirpekel/retrieval-core/internal/chunksearch"
	"github.com/kadirpekel/retrieval-core/internal/conceptsearch"
	"github.com/kadirpekel/retrieval-core/internal/embedding"
	"github.com/kadirpekel/retrieval-core/internal/expand"
	"github.com/kadirpekel/retrieval-core/internal/resilience"
	"github.com/kadirpekel/retrieval-core/internal/search"
	"github.com/kadirpekel/retrieval-core/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ctx := context.Background()
	engine, err := store.NewEngine(store.Config{})
	require.NoError(t, err)

	st := &store.Store{
		Engine:     engine,
		Catalog:    store.NewCatalogRepository(engine),
		Chunks:     store.NewChunkRepository(engine),
		Concepts:   store.NewConceptRepository(engine),
		Categories: store.NewCategoryRepository(),
	}

	embedder := embedding.NewHashingEmbedder(16)
	exec := resilience.NewExecutor()
	expander := expand.New(nil, st.Concepts, embedder, exec)
	hybrid := search.New(st.Catalog, st.Chunks, st.Concepts, expander, embedder, exec)

	v1, err := embedder.Embed(ctx, "recursion and induction in algorithm proofs")
	require.NoError(t, err)
	require.NoError(t, st.Catalog.BulkInsert(ctx, []store.CatalogRow{
		{ID: 1, Filename: "algorithms.txt", Text: "a survey of recursive algorithms", Vector: v1, CategoryIDs: []int32{10}},
	}))

	recursion, err := st.Concepts.Upsert(ctx, "recursion", v1, 1)
	require.NoError(t, err)
	induction, err := st.Concepts.Upsert(ctx, "induction", v1, 1)
	require.NoError(t, err)
	require.NoError(t, st.Concepts.SetEnrichment(ctx, recursion.ID, []int32{induction.ID}, nil, nil, nil))

	require.NoError(t, st.Chunks.BulkInsert(ctx, []store.ChunkRow{
		{ID: 101, CatalogID: 1, Text: "recursion calls itself on a smaller input", Vector: v1, ConceptIDs: []int32{recursion.ID, induction.ID}},
		{ID: 102, CatalogID: 1, Text: "induction proves the base case and the step", Vector: v1, ConceptIDs: []int32{induction.ID}},
	}))
	st.Categories.Upsert(10, "computer science", 1)

	return New(
		catalogsearch.New(hybrid),
		chunksearch.New(hybrid, st.Catalog, st.Chunks),
		categorysearch.New(st.Categories, st.Catalog, st.Chunks),
		conceptsearch.New(st.Concepts, st.Chunks, st.Catalog, exec),
		st, exec, nil,
	)
}

func TestHandleCatalogSearch_RejectsEmptyText(t *testing.T) {
	s := newTestServer(t)
	_, _, err := s.handleCatalogSearch(context.Background(), nil, CatalogSearchInput{Text: "  "})
	require.Error(t, err)
	var ve *apierrors.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestHandleCatalogSearch_ReturnsResults(t *testing.T) {
	s := newTestServer(t)
	_, out, err := s.handleCatalogSearch(context.Background(), nil, CatalogSearchInput{Text: "recursive algorithms"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Results)
	require.Equal(t, "algorithms.txt", out.Results[0].Filename)
}

func TestHandleChunksSearch_UnknownSourceIsEmptyNotError(t *testing.T) {
	s := newTestServer(t)
	_, out, err := s.handleChunksSearch(context.Background(), nil, ChunksSearchInput{Text: "recursion", Source: "missing.txt"})
	require.NoError(t, err)
	require.Empty(t, out.Results)
}

func TestHandleExtractConcepts_DerivesFromStoredIDs(t *testing.T) {
	s := newTestServer(t)
	_, out, err := s.handleExtractConcepts(context.Background(), nil, ExtractConceptsInput{Source: "algorithms.txt"})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"recursion", "induction"}, out.PrimaryConcepts)
	require.Equal(t, []string{"computer science"}, out.Categories)
}

func TestHandleExtractConcepts_UnknownSourceIsEmptyNotError(t *testing.T) {
	s := newTestServer(t)
	_, out, err := s.handleExtractConcepts(context.Background(), nil, ExtractConceptsInput{Source: "missing.txt"})
	require.NoError(t, err)
	require.Empty(t, out.PrimaryConcepts)
}

func TestHandleSourceConcepts_RanksByChunkFrequency(t *testing.T) {
	s := newTestServer(t)
	_, out, err := s.handleSourceConcepts(context.Background(), nil, SourceConceptsInput{Source: "algorithms.txt"})
	require.NoError(t, err)
	require.Equal(t, []string{"induction", "recursion"}, out.Concepts, "induction appears in both chunks, recursion in one")
}

func TestHandleConceptSources_ResolvesCatalogIDsToFilenames(t *testing.T) {
	s := newTestServer(t)
	_, out, err := s.handleConceptSources(context.Background(), nil, ConceptSourcesInput{Concept: "recursion"})
	require.NoError(t, err)
	require.Equal(t, []string{"algorithms.txt"}, out.Sources)
}

func TestHandleConceptSources_UnknownConceptIsEmptyNotError(t *testing.T) {
	s := newTestServer(t)
	_, out, err := s.handleConceptSources(context.Background(), nil, ConceptSourcesInput{Concept: "does not exist"})
	require.NoError(t, err)
	require.Empty(t, out.Sources)
}

func TestHandleCategorySearch_ReturnsDocumentsAndConcepts(t *testing.T) {
	s := newTestServer(t)
	_, out, err := s.handleCategorySearch(context.Background(), nil, CategorySearchInput{Name: "computer science"})
	require.NoError(t, err)
	require.Equal(t, []string{"algorithms.txt"}, out.Documents)
	require.ElementsMatch(t, []string{"recursion", "induction"}, out.Concepts)
}

func TestHandleListCategories_ListsAllRows(t *testing.T) {
	s := newTestServer(t)
	_, out, err := s.handleListCategories(context.Background(), nil, ListCategoriesInput{})
	require.NoError(t, err)
	require.Len(t, out.Categories, 1)
	require.Equal(t, "computer science", out.Categories[0].Name)
}

func TestHealth_ReportsHealthyWithNoFailures(t *testing.T) {
	s := newTestServer(t)
	summary := s.Health()
	require.True(t, summary.Healthy)
}
