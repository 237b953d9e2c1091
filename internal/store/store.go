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

import "context"

// Store is the composition root for the four repositories, sharing one
// embedded vector Engine (catalog, chunks, and concepts each own a
// collection; categories have no vector column and live purely in
// memory, per §3.4).
type Store struct {
	Engine     *Engine
	Catalog    *CatalogRepository
	Chunks     *ChunkRepository
	Concepts   *ConceptRepository
	Categories *CategoryRepository
}

// NewStore opens the engine at cfg and, if cfg.PersistPath is set and a
// prior snapshot exists, rehydrates every repository's in-memory row
// index from it (§9: the engine persists vectors, this restores the
// structured rows and secondary indices those vectors are looked up by).
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	engine, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}

	s := &Store{
		Engine:     engine,
		Catalog:    NewCatalogRepository(engine),
		Chunks:     NewChunkRepository(engine),
		Concepts:   NewConceptRepository(engine),
		Categories: NewCategoryRepository(),
	}

	if cfg.PersistPath != "" {
		snap, ok, err := loadSnapshotFile(cfg.PersistPath)
		if err != nil {
			return nil, err
		}
		if ok {
			s.applySnapshot(snap)
		}
	}

	return s, nil
}

// Close persists both the vector engine and the structured row snapshot.
func (s *Store) Close() error {
	if err := s.Engine.Close(); err != nil {
		return err
	}
	return s.saveSnapshotFile()
}
