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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLLMConfig_SetDefaultsDetectsAnthropicFromEnv(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test-key")
	t.Setenv("OPENAI_API_KEY", "")

	c := LLMConfig{}
	c.SetDefaults()

	require.Equal(t, LLMProviderAnthropic, c.Provider)
	require.Equal(t, "sk-test-key", c.APIKey)
	require.Equal(t, "claude-sonnet-4-20250514", c.Model)
	require.Equal(t, 7, c.MaxCategoriesPerDocument)
	require.Equal(t, 20, c.BatchSize)
}

func TestLLMConfig_SetDefaultsPreservesExplicitValues(t *testing.T) {
	c := LLMConfig{Provider: LLMProviderOpenAI, Model: "gpt-4o-mini", APIKey: "explicit-key"}
	c.SetDefaults()

	require.Equal(t, "gpt-4o-mini", c.Model)
	require.Equal(t, "explicit-key", c.APIKey)
}

func TestLLMConfig_ValidateRejectsMissingAPIKeyExceptOllama(t *testing.T) {
	anthropic := LLMConfig{Provider: LLMProviderAnthropic}
	require.Error(t, anthropic.Validate())

	ollama := LLMConfig{Provider: LLMProviderOllama}
	require.NoError(t, ollama.Validate())
}

func TestEmbeddingConfig_SetDefaults(t *testing.T) {
	c := EmbeddingConfig{}
	c.SetDefaults()
	require.Equal(t, EmbeddingProviderHashing, c.Provider)
	require.Equal(t, 256, c.Dimension)
}

func TestEmbeddingConfig_ValidateRequiresBaseURLForHTTPProvider(t *testing.T) {
	c := EmbeddingConfig{Provider: EmbeddingProviderHTTP, Dimension: 128}
	require.Error(t, c.Validate())

	c.BaseURL = "https://embeddings.example.com"
	require.NoError(t, c.Validate())
}

func TestStoreConfig_SetDefaultsDerivesLockFileFromRootDir(t *testing.T) {
	c := StoreConfig{RootDir: "/var/lib/retrieval-core"}
	c.SetDefaults()
	require.Equal(t, "/var/lib/retrieval-core/.ingest.lock", c.LockFile)
}

func TestResilienceConfig_ProfilesAppliesOnlyConfiguredFields(t *testing.T) {
	cfg := ResilienceConfig{LLM: &ProfileOverride{TimeoutMS: 5000}}
	llm, embedding, _, _ := cfg.Profiles()

	require.Equal(t, int64(5000), llm.Timeout.Milliseconds())
	require.Equal(t, 3, llm.Retry.MaxAttempts, "unconfigured fields must fall back to the built-in profile")
	require.Equal(t, 10, embedding.Bulkhead.MaxConcurrent, "an untouched profile must equal the built-in default")
}

func TestLoad_ExpandsEnvVarsAndAppliesDefaults(t *testing.T) {
	t.Setenv("TEST_RETRIEVAL_API_KEY", "sk-from-env")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "llm:\n  provider: anthropic\n  api_key: ${TEST_RETRIEVAL_API_KEY}\nstore:\n  root_dir: " + dir + "\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "sk-from-env", cfg.LLM.APIKey)
	require.Equal(t, dir, cfg.Store.RootDir)
	require.Equal(t, 256, cfg.Embedding.Dimension, "unset sections still receive defaults")
}

func TestLoad_MissingFileIsAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
