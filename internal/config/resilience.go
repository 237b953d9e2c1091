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
	"time"

	"github.com/kadirpekel/retrieval-core/internal/resilience"
)

// ProfileOverride replaces selected fields of one of the four predefined
// resilience.Profile values (§4.8). Zero fields leave the base profile's
// setting untouched; this struct never builds a profile by itself.
type ProfileOverride struct {
	TimeoutMS          int `yaml:"timeout_ms,omitempty"`
	RetryMaxAttempts   int `yaml:"retry_max_attempts,omitempty"`
	BulkheadConcurrent int `yaml:"bulkhead_concurrent,omitempty"`
	BulkheadQueue      int `yaml:"bulkhead_queue,omitempty"`
}

// ResilienceConfig overrides zero or more of the four named profiles.
// This is the override point resilience.Profile's doc comment refers to.
type ResilienceConfig struct {
	LLM       *ProfileOverride `yaml:"llm,omitempty"`
	Embedding *ProfileOverride `yaml:"embedding,omitempty"`
	Database  *ProfileOverride `yaml:"database,omitempty"`
	Search    *ProfileOverride `yaml:"search,omitempty"`
}

func (c *ResilienceConfig) Validate() error {
	for name, o := range map[string]*ProfileOverride{
		"llm": c.LLM, "embedding": c.Embedding, "database": c.Database, "search": c.Search,
	} {
		if o == nil {
			continue
		}
		if o.TimeoutMS < 0 || o.RetryMaxAttempts < 0 || o.BulkheadConcurrent < 0 || o.BulkheadQueue < 0 {
			return fmt.Errorf("config: resilience override %q must not contain negative values", name)
		}
	}
	return nil
}

func apply(base resilience.Profile, o *ProfileOverride) resilience.Profile {
	if o == nil {
		return base
	}
	if o.TimeoutMS > 0 {
		base.Timeout = time.Duration(o.TimeoutMS) * time.Millisecond
	}
	if o.RetryMaxAttempts > 0 {
		base.Retry.MaxAttempts = o.RetryMaxAttempts
	}
	if o.BulkheadConcurrent > 0 {
		base.Bulkhead.MaxConcurrent = o.BulkheadConcurrent
	}
	if o.BulkheadQueue > 0 {
		base.Bulkhead.MaxQueue = o.BulkheadQueue
	}
	return base
}

// Profiles resolves the four named profiles, applying any configured
// overrides over resilience's built-in defaults.
func (c ResilienceConfig) Profiles() (llm, embedding, database, search resilience.Profile) {
	return apply(resilience.ProfileLLM, c.LLM),
		apply(resilience.ProfileEmbedding, c.Embedding),
		apply(resilience.ProfileDatabase, c.Database),
		apply(resilience.ProfileSearch, c.Search)
}
