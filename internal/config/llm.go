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
	"fmt"
	"os"
)

// LLMProvider identifies the concept-extraction/summarization backend.
type LLMProvider string

const (
	LLMProviderAnthropic LLMProvider = "anthropic"
	LLMProviderOpenAI    LLMProvider = "openai"
	LLMProviderOllama    LLMProvider = "ollama"
)

// LLMConfig configures the external LLM used by internal/ingest for
// concept extraction and document summarization (spec.md §4.7 step 3).
type LLMConfig struct {
	Provider LLMProvider `yaml:"provider,omitempty"`
	Model    string      `yaml:"model,omitempty"`
	APIKey   string      `yaml:"api_key,omitempty"`
	BaseURL  string      `yaml:"base_url,omitempty"`

	// MaxCategoriesPerDocument caps the category union step (§4.7 step 4).
	MaxCategoriesPerDocument int `yaml:"max_categories_per_document,omitempty"`

	// BatchSize is how many chunks are sent to the extractor per call.
	BatchSize int `yaml:"batch_size,omitempty"`
}

func (c *LLMConfig) SetDefaults() {
	if c.Provider == "" {
		c.Provider = detectLLMProviderFromEnv()
	}
	if c.Model == "" {
		switch c.Provider {
		case LLMProviderAnthropic:
			c.Model = "claude-sonnet-4-20250514"
		case LLMProviderOpenAI:
			c.Model = "gpt-4o"
		case LLMProviderOllama:
			c.Model = "llama3.2"
		}
	}
	if c.APIKey == "" {
		c.APIKey = llmAPIKeyFromEnv(c.Provider)
	}
	if c.MaxCategoriesPerDocument <= 0 {
		c.MaxCategoriesPerDocument = 7
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 20
	}
}

func (c *LLMConfig) Validate() error {
	switch c.Provider {
	case LLMProviderAnthropic, LLMProviderOpenAI, LLMProviderOllama, "":
	default:
		return fmt.Errorf("config: invalid llm provider %q", c.Provider)
	}
	if c.Provider != LLMProviderOllama && c.APIKey == "" {
		return fmt.Errorf("config: api_key is required for llm provider %q", c.Provider)
	}
	if c.BatchSize < 0 {
		return fmt.Errorf("config: llm batch_size must not be negative")
	}
	return nil
}

func detectLLMProviderFromEnv() LLMProvider {
	switch {
	case os.Getenv("ANTHROPIC_API_KEY") != "":
		return LLMProviderAnthropic
	case os.Getenv("OPENAI_API_KEY") != "":
		return LLMProviderOpenAI
	default:
		return LLMProviderAnthropic
	}
}

func llmAPIKeyFromEnv(provider LLMProvider) string {
	switch provider {
	case LLMProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	case LLMProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	default:
		return ""
	}
}
