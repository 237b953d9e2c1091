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

package store

import (
	"encoding/gob"
	"fmt"
	"os"
	"strings"

	"github.com/kadirpekel/retrieval-core/internal/ids"
)

// snapshot is the gob-encoded sidecar alongside vectors.gob: chromem
// persists embeddings and raw content, but none of the structured row
// fields (category_ids, concept_ids, weight, ...) or the secondary
// indices repositories build in memory, so those are captured here and
// replayed directly into each repository's maps on startup. gob is used
// rather than a third-party encoding because it is the same format
// chromem-go itself persists with (Export/NewPersistentDB), so the two
// files share one serialization idiom.
type snapshot struct {
	Catalog    []CatalogRow
	Chunks     []ChunkRow
	Concepts   []ConceptRow
	Categories []CategoryRow
}

func snapshotPath(persistPath string) string {
	return persistPath + "/rows.gob"
}

func loadSnapshotFile(persistPath string) (snapshot, bool, error) {
	f, err := os.Open(snapshotPath(persistPath))
	if err != nil {
		if os.IsNotExist(err) {
			return snapshot{}, false, nil
		}
		return snapshot{}, false, fmt.Errorf("store: open snapshot: %w", err)
	}
	defer f.Close()

	var snap snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return snapshot{}, false, fmt.Errorf("store: decode snapshot: %w", err)
	}
	return snap, true, nil
}

func (s *Store) saveSnapshotFile() error {
	persistPath := s.Engine.persistPath
	if persistPath == "" {
		return nil
	}

	snap := snapshot{
		Catalog:    s.Catalog.all(),
		Chunks:     s.Chunks.all(),
		Concepts:   s.Concepts.all(),
		Categories: s.Categories.FindAll(),
	}

	f, err := os.Create(snapshotPath(persistPath))
	if err != nil {
		return fmt.Errorf("store: create snapshot: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(snap); err != nil {
		return fmt.Errorf("store: encode snapshot: %w", err)
	}
	return nil
}

// applySnapshot rehydrates every repository's row map and secondary
// indices. It runs before the Store is handed to any caller, so it takes
// no locks.
func (s *Store) applySnapshot(snap snapshot) {
	for _, row := range snap.Catalog {
		s.Catalog.rows[row.ID] = row
		s.Catalog.byFilename[row.Filename] = row.ID
		for _, catID := range row.CategoryIDs {
			s.Catalog.byCategory[catID] = appendUnique(s.Catalog.byCategory[catID], row.ID)
		}
	}
	for _, row := range snap.Chunks {
		s.Chunks.rows[row.ID] = row
		s.Chunks.byCatalogID[row.CatalogID] = append(s.Chunks.byCatalogID[row.CatalogID], row.ID)
	}
	for _, row := range snap.Concepts {
		normalized := ids.NormalizeConcept(row.Concept)
		s.Concepts.rows[row.ID] = row
		s.Concepts.byName[normalized] = row.ID
		if normalized != "" {
			s.Concepts.byPrefix[normalized[0]] = appendUnique(s.Concepts.byPrefix[normalized[0]], row.ID)
		}
	}
	for _, row := range snap.Categories {
		normalized := strings.ToLower(strings.TrimSpace(row.Name))
		s.Categories.rows[row.ID] = row
		s.Categories.byName[normalized] = row.ID
	}
}

func (r *CatalogRepository) all() []CatalogRow {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]CatalogRow, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row)
	}
	return out
}

func (r *ChunkRepository) all() []ChunkRow {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ChunkRow, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row)
	}
	return out
}

func (r *ConceptRepository) all() []ConceptRow {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ConceptRow, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row)
	}
	return out
}
