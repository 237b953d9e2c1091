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

import "fmt"

// EmbeddingProvider selects the embedding.Embedder implementation wired
// at startup (§4.2).
type EmbeddingProvider string

const (
	EmbeddingProviderHashing EmbeddingProvider = "hashing"
	EmbeddingProviderHTTP    EmbeddingProvider = "http"
)

// EmbeddingConfig configures the vector dimension D and, for a hosted
// provider, its endpoint and credentials.
type EmbeddingConfig struct {
	Provider  EmbeddingProvider `yaml:"provider,omitempty"`
	Dimension int               `yaml:"dimension,omitempty"`
	BaseURL   string            `yaml:"base_url,omitempty"`
	APIKey    string            `yaml:"api_key,omitempty"`
	Model     string            `yaml:"model,omitempty"`
}

func (c *EmbeddingConfig) SetDefaults() {
	if c.Provider == "" {
		c.Provider = EmbeddingProviderHashing
	}
	if c.Dimension <= 0 {
		c.Dimension = 256
	}
}

func (c *EmbeddingConfig) Validate() error {
	switch c.Provider {
	case EmbeddingProviderHashing, EmbeddingProviderHTTP:
	default:
		return fmt.Errorf("config: invalid embedding provider %q", c.Provider)
	}
	if c.Dimension <= 0 {
		return fmt.Errorf("config: embedding dimension must be positive, got %d", c.Dimension)
	}
	if c.Provider == EmbeddingProviderHTTP && c.BaseURL == "" {
		return fmt.Errorf("config: base_url is required for the http embedding provider")
	}
	return nil
}
