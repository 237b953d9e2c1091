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

// Package config loads and validates the YAML configuration described in
// spec.md §6.4: LLM endpoint and credentials, embedding dimension, store
// root directory, and resilience profile overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoggingConfig controls internal/logging's verbosity.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"`
}

func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// Config is the top-level document unmarshaled from the YAML config file.
type Config struct {
	LLM        LLMConfig        `yaml:"llm,omitempty"`
	Embedding  EmbeddingConfig  `yaml:"embedding,omitempty"`
	Store      StoreConfig      `yaml:"store,omitempty"`
	Ontology   OntologyConfig   `yaml:"ontology,omitempty"`
	Resilience ResilienceConfig `yaml:"resilience,omitempty"`
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
}

// SetDefaults fills in every unset field across the config tree.
func (c *Config) SetDefaults() {
	c.LLM.SetDefaults()
	c.Embedding.SetDefaults()
	c.Store.SetDefaults()
	c.Ontology.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks the config tree after defaults have been applied.
func (c *Config) Validate() error {
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	if err := c.Embedding.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.Ontology.Validate(); err != nil {
		return err
	}
	if err := c.Resilience.Validate(); err != nil {
		return err
	}
	return nil
}

// Load reads path as YAML, expands ${VAR} references against the process
// environment (after loading .env.local/.env via LoadEnvFiles), applies
// defaults, and validates the result.
func Load(path string) (*Config, error) {
	if err := LoadEnvFiles(); err != nil {
		return nil, fmt.Errorf("config: load .env files: %w", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	expanded := expandEnvVars(string(raw))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}
