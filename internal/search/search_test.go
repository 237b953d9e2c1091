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

package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/retrieval-core/internal/embedding"
	"github.com/kadirpekel/retrieval-core/internal/expand"
	"github.com/kadirpekel/retrieval-core/internal/resilience"
	"github.com/kadirpekel/retrieval-core/internal/store"
)

func TestWeightsSumToOne(t *testing.T) {
	require.InDelta(t, 1.0, weightVector+weightBM25+weightTitle+weightConcept+weightWordnet, 1e-9)
}

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	ctx := context.Background()
	engine, err := store.NewEngine(store.Config{})
	require.NoError(t, err)
	s := &store.Store{
		Engine:     engine,
		Catalog:    store.NewCatalogRepository(engine),
		Chunks:     store.NewChunkRepository(engine),
		Concepts:   store.NewConceptRepository(engine),
		Categories: store.NewCategoryRepository(),
	}

	embedder := embedding.NewHashingEmbedder(32)
	exec := resilience.NewExecutor()
	expander := expand.New(nil, s.Concepts, embedder, exec)
	svc := New(s.Catalog, s.Chunks, s.Concepts, expander, embedder, exec)

	doc1 := mustVec(t, embedder, ctx, "binary search trees balance algorithms")
	doc2 := mustVec(t, embedder, ctx, "french cooking recipes and techniques")
	require.NoError(t, s.Catalog.BulkInsert(ctx, []store.CatalogRow{
		{ID: 1, Filename: "algorithms.txt", Text: "binary search trees balance algorithms", Vector: doc1},
		{ID: 2, Filename: "cooking.txt", Text: "french cooking recipes and techniques", Vector: doc2},
	}))
	require.NoError(t, s.Chunks.BulkInsert(ctx, []store.ChunkRow{
		{ID: 101, CatalogID: 1, Text: "a binary search tree keeps itself balanced", Vector: doc1},
		{ID: 201, CatalogID: 2, Text: "whisk butter into the warm sauce", Vector: doc2},
	}))

	return svc, s
}

func mustVec(t *testing.T, e *embedding.HashingEmbedder, ctx context.Context, text string) []float32 {
	t.Helper()
	v, err := e.Embed(ctx, text)
	require.NoError(t, err)
	return v
}

func TestService_SearchCatalogRanksRelevantDocumentFirst(t *testing.T) {
	svc, _ := newTestService(t)
	resp, err := svc.Search(context.Background(), TableCatalog, "binary search tree algorithm", 5, false)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)
	require.Equal(t, int32(1), resp.Results[0].ID)
	require.Nil(t, resp.Debug)
}

func TestService_SearchChunksWithDebugAttachesExpandedTerms(t *testing.T) {
	svc, _ := newTestService(t)
	resp, err := svc.Search(context.Background(), TableChunks, "binary search tree", 5, true)
	require.NoError(t, err)
	require.NotNil(t, resp.Debug)
	require.NotEmpty(t, resp.Debug.ExpandedTerms)
	require.Equal(t, int32(101), resp.Results[0].ID)
}

func TestService_SearchRejectsUnknownTable(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Search(context.Background(), "bogus", "query", 5, false)
	require.Error(t, err)
}

func TestBM25_NoTermsScoresZero(t *testing.T) {
	require.Equal(t, 0.0, bm25("some document text", nil, nil))
}

func TestTitleMatch_CountsSubstringMatches(t *testing.T) {
	score := titleMatch([]string{"binary", "search"}, "binary-search-trees.txt")
	require.Equal(t, 1.0, score)
}

func TestWordnetOverlap_EmptyLexicalTermsScoresZero(t *testing.T) {
	require.Equal(t, 0.0, wordnetOverlap(nil, "anything"))
}
