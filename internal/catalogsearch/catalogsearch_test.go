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

package catalogsearch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/retrieval-core/internal/embedding"
	"github.com/kadirpekel/retrieval-core/internal/expand"
	"github.com/kadirpekel/retrieval-core/internal/resilience"
	"github.com/kadirpekel/retrieval-core/internal/search"
	"github.com/kadirpekel/retrieval-core/internal/store"
)

func newTestService(t *testing.T) *Service {
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

	v, err := embedder.Embed(ctx, "recursive descent parsers")
	require.NoError(t, err)
	require.NoError(t, catalog.BulkInsert(ctx, []store.CatalogRow{
		{ID: 1, Filename: "parsers.txt", Text: "recursive descent parsers", Vector: v},
	}))

	return New(hybrid)
}

func TestService_SearchClampsZeroLimitToMax(t *testing.T) {
	svc := newTestService(t)
	resp, err := svc.Search(context.Background(), "recursive descent parsers", 0, false)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)
}

func TestService_SearchClampsOversizedLimit(t *testing.T) {
	svc := newTestService(t)
	resp, err := svc.Search(context.Background(), "recursive descent parsers", 500, false)
	require.NoError(t, err)
	require.LessOrEqual(t, len(resp.Results), maxLimit)
}

func TestService_SearchDelegatesToCatalogTable(t *testing.T) {
	svc := newTestService(t)
	resp, err := svc.Search(context.Background(), "recursive descent parsers", 5, false)
	require.NoError(t, err)
	require.Equal(t, int32(1), resp.Results[0].ID)
}
