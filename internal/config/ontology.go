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

// OntologyConfig configures the optional WordNet-derived flat-file
// lookup used by the query expander (§4.4 step 2). FlatFilePath empty
// disables ontology expansion entirely; the expander is built to treat a
// nil Lookup as "no enrichment" rather than an error.
type OntologyConfig struct {
	FlatFilePath  string `yaml:"flat_file_path,omitempty"`
	CacheSize     int    `yaml:"cache_size,omitempty"`
	CacheDiskPath string `yaml:"cache_disk_path,omitempty"`
	WriteThrough  bool   `yaml:"write_through,omitempty"`
}

func (c *OntologyConfig) SetDefaults() {
	if c.CacheSize <= 0 {
		c.CacheSize = 10000
	}
}

func (c *OntologyConfig) Validate() error {
	if c.CacheSize <= 0 {
		return fmt.Errorf("config: ontology cache_size must be positive")
	}
	return nil
}
