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

// StoreConfig points at the on-disk root the chromem-go engine and the
// rows.gob sidecar snapshot persist under (§6.2).
type StoreConfig struct {
	RootDir string `yaml:"root_dir,omitempty"`

	// SnapshotOnWrite is read from the config file, but no component uses
	// it: rows.gob is written only when the store is closed, whatever its
	// value.
	SnapshotOnWrite bool `yaml:"snapshot_on_write,omitempty"`

	// LockFile is the advisory flock path guarding concurrent ingest of
	// the same filename (spec.md §9).
	LockFile string `yaml:"lock_file,omitempty"`
}

func (c *StoreConfig) SetDefaults() {
	if c.RootDir == "" {
		c.RootDir = "./data"
	}
	if c.LockFile == "" {
		c.LockFile = c.RootDir + "/.ingest.lock"
	}
}

func (c *StoreConfig) Validate() error {
	if c.RootDir == "" {
		return fmt.Errorf("config: store root_dir must not be empty")
	}
	return nil
}
