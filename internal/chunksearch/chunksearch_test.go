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

package chunksearch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/retrieval-core/internal/apierrors"
	"github.com/kadirpekel/retrieval-core/internal/embedding"
	"github.com/kadirpekel/retrieval-core/internal/expand"
	"github.com/kadirpekel/retrieval-core/internal/resilience"
	"github.com/kadirpekel/retrieval-core/internal/search"
	"github.com/kadirpekel/retrieval-core/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.CatalogRepository, *store.ChunkRepository) {
	t.Helper()
	ctx := context.Background()
	engine, err := store.NewEngine(store.Config{})
	require.NoError(t, err)
	catalog := store.NewCatalogRepository(engine)
	chunks := store.NewChunkRepository(engine)
	concepts := store.NewConceptRepository(engine)

	embedder := embedding.NewHashingEmbedder(16)
	exec := resilience.NewExecutor()
	expander := expand.New(nil, concepts, embedder, exec)
	hybrid := search.New(catalog, chunks, concepts, expander, embedder, exec)

	v1, err := embedder.Embed(ctx, "binary search tree balance")
	require.NoError(t, err)
	v2, err := embedder.Embed(ctx, "quicksort pivot selection")
	require.NoError(t, err)
	require.NoError(t, catalog.BulkInsert(ctx, []store.CatalogRow{
		{ID: 1, Filename: "algorithms.txt", Text: "binary search tree balance", Vector: v1},
		{ID: 2, Filename: "sorting.txt", Text: "quicksort pivot selection", Vector: v2},
	}))
	require.NoError(t, chunks.BulkInsert(ctx, []store.ChunkRow{
		{ID: 101, CatalogID: 1, Text: "a binary search tree keeps itself balanced", Vector: v1},
		{ID: 102, CatalogID: 1, Text: "rebalancing happens on insert and delete", Vector: v1},
		{ID: 201, CatalogID: 2, Text: "quicksort picks a pivot and partitions", Vector: v2},
	}))

	return New(hybrid, catalog, chunks), catalog, chunks
}

func TestService_BroadSearchRanksAcrossDocuments(t *testing.T) {
	svc, _, _ := newTestService(t)
	resp, err := svc.BroadSearch(context.Background(), "binary search tree", 5, false)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)
	require.Equal(t, int32(101), resp.Results[0].ID)
}

func TestService_SearchWithinSourceScopesToOneDocument(t *testing.T) {
	svc, _, _ := newTestService(t)
	resp, err := svc.SearchWithinSource(context.Background(), "balanced tree", "algorithms.txt", 5)
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	for _, r := range resp.Results {
		require.Contains(t, []int32{101, 102}, r.ID)
	}
}

func TestService_SearchWithinSourceUnknownSourceIsNotFoundError(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.SearchWithinSource(context.Background(), "anything", "missing.txt", 5)
	require.Error(t, err)
	var nf *apierrors.NotFoundError
	require.ErrorAs(t, err, &nf)
}
