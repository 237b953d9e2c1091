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

package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/retrieval-core/internal/config"
	"github.com/kadirpekel/retrieval-core/internal/resilience"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		LLM:     config.LLMConfig{Provider: config.LLMProviderOllama},
		Store:   config.StoreConfig{RootDir: t.TempDir()},
		Logging: config.LoggingConfig{Level: "error"},
	}
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestNew_BuildsAContainerWithHashingEmbedderByDefault(t *testing.T) {
	c, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer c.Close()

	require.NotNil(t, c.Store)
	require.NotNil(t, c.Executor)
	require.NotNil(t, c.Embedder)
	require.NotNil(t, c.Pipeline)
	require.NotNil(t, c.Tool)
	require.Equal(t, 256, c.Embedder.Dimension())
}

func TestNew_RejectsHTTPEmbeddingProviderAsUnwireable(t *testing.T) {
	cfg := testConfig(t)
	cfg.Embedding.Provider = config.EmbeddingProviderHTTP
	cfg.Embedding.BaseURL = "http://example.invalid"

	_, err := New(context.Background(), cfg)
	require.Error(t, err)
}

func TestNew_NilOntologyWhenFlatFilePathUnset(t *testing.T) {
	c, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer c.Close()

	lookup, err := buildOntology(c.Config.Ontology)
	require.NoError(t, err)
	require.Nil(t, lookup)
}

func TestNew_AppliesResilienceProfileOverrides(t *testing.T) {
	original := resilience.ProfileDatabase
	t.Cleanup(func() { resilience.ProfileDatabase = original })

	cfg := testConfig(t)
	cfg.Resilience.Database = &config.ProfileOverride{TimeoutMS: 42}

	c, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer c.Close()

	require.Equal(t, int64(42), resilience.ProfileDatabase.Timeout.Milliseconds())
}

func TestClose_PersistsAndReopens(t *testing.T) {
	cfg := testConfig(t)
	c, err := New(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, c.Close())

	c2, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer c2.Close()
}
