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
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/philippgille/chromem-go"
)

// chromemIndexThreshold is when the ANN index is built lazily, per §6.2:
// "an ANN vector index on every table's vector column (built lazily once
// >= 256 rows)". The engine builds no separate ANN index: VectorSearch
// makes the same chromem QueryEmbedding call below and above this size.
// The constant only drives IndexedSize, which the ingestion pipeline
// logs when the chunk table reaches it.
const chromemIndexThreshold = 256

// Engine wraps a chromem-go database, providing collection-scoped
// put/get/delete/vector-search primitives shared by every repository.
// It is the sole adapter to the physical vector store (§1: "the on-disk
// vector database engine... specified only through the repository
// operations the core requires").
type Engine struct {
	db          *chromem.DB
	persistPath string

	mu          sync.RWMutex
	collections map[string]*chromem.Collection
}

// Config configures the embedded vector engine.
type Config struct {
	// PersistPath, if set, enables gob file persistence under this
	// directory. Empty means in-memory only (used by tests).
	PersistPath string
}

// NewEngine opens or creates the embedded vector database.
func NewEngine(cfg Config) (*Engine, error) {
	var db *chromem.DB

	if cfg.PersistPath != "" {
		if err := os.MkdirAll(cfg.PersistPath, 0o755); err != nil {
			return nil, fmt.Errorf("store: create persist dir: %w", err)
		}
		dbPath := cfg.PersistPath + "/vectors.gob"
		if _, err := os.Stat(dbPath); err == nil {
			loaded, loadErr := chromem.NewPersistentDB(dbPath, false)
			if loadErr != nil {
				return nil, fmt.Errorf("store: load persisted db: %w", loadErr)
			}
			db = loaded
		} else {
			db = chromem.NewDB()
		}
	} else {
		db = chromem.NewDB()
	}

	return &Engine{
		db:          db,
		persistPath: cfg.PersistPath,
		collections: make(map[string]*chromem.Collection),
	}, nil
}

// identityEmbed is passed to chromem so it never computes embeddings
// itself; every vector is pre-computed by the embedding service and
// supplied directly to Put/Search.
func identityEmbed(_ context.Context, _ string) ([]float32, error) {
	return nil, fmt.Errorf("store: chromem embedding func invoked; vectors must be pre-computed")
}

func (e *Engine) collection(name string) (*chromem.Collection, error) {
	e.mu.RLock()
	if c, ok := e.collections[name]; ok {
		e.mu.RUnlock()
		return c, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if c, ok := e.collections[name]; ok {
		return c, nil
	}
	c, err := e.db.GetOrCreateCollection(name, nil, identityEmbed)
	if err != nil {
		return nil, fmt.Errorf("store: get/create collection %q: %w", name, err)
	}
	e.collections[name] = c
	return c, nil
}

// Put upserts one document by ID into collection.
func (e *Engine) Put(ctx context.Context, collection, id, content string, vector []float32, metadata map[string]string) error {
	col, err := e.collection(collection)
	if err != nil {
		return err
	}
	doc := chromem.Document{ID: id, Content: content, Metadata: metadata, Embedding: vector}
	if err := col.AddDocuments(ctx, []chromem.Document{doc}, runtime.NumCPU()); err != nil {
		return fmt.Errorf("store: put %s/%s: %w", collection, id, err)
	}
	return e.persist()
}

// Delete removes one document by ID from collection.
func (e *Engine) Delete(ctx context.Context, collection, id string) error {
	col, err := e.collection(collection)
	if err != nil {
		return err
	}
	if err := col.Delete(ctx, nil, nil, id); err != nil {
		return fmt.Errorf("store: delete %s/%s: %w", collection, id, err)
	}
	return e.persist()
}

// DeleteWhere removes every document in collection matching the
// chromem-native metadata filter (exact string equality per key).
func (e *Engine) DeleteWhere(ctx context.Context, collection string, where map[string]string) error {
	col, err := e.collection(collection)
	if err != nil {
		return err
	}
	if err := col.Delete(ctx, where, nil); err != nil {
		return fmt.Errorf("store: delete-where %s: %w", collection, err)
	}
	return e.persist()
}

// Count returns the number of documents in collection.
func (e *Engine) Count(collection string) (int, error) {
	col, err := e.collection(collection)
	if err != nil {
		return 0, err
	}
	return col.Count(), nil
}

// VectorSearch runs chromem's QueryEmbedding for vector against
// collection, the same way at every collection size, returning up to
// limit hits ascending by distance. limit is clamped to the collection's
// row count.
func (e *Engine) VectorSearch(ctx context.Context, collection string, vector []float32, limit int) ([]SearchHit, error) {
	col, err := e.collection(collection)
	if err != nil {
		return nil, err
	}
	n := col.Count()
	if n == 0 || limit <= 0 {
		return nil, nil
	}
	if limit > n {
		limit = n
	}
	results, err := col.QueryEmbedding(ctx, vector, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("store: vector search %s: %w", collection, err)
	}
	return toSearchHits(results), nil
}

// IndexedSize reports whether an ANN index would be considered "built" at
// this collection's current size, per the >=256 threshold in §6.2.
func (e *Engine) IndexedSize(collection string) (count int, indexed bool, err error) {
	n, err := e.Count(collection)
	if err != nil {
		return 0, false, err
	}
	return n, n >= chromemIndexThreshold, nil
}

func (e *Engine) persist() error {
	if e.persistPath == "" {
		return nil
	}
	dbPath := e.persistPath + "/vectors.gob"
	//nolint:staticcheck // Export is the stable persistence API in this version.
	if err := e.db.Export(dbPath, false, ""); err != nil {
		return fmt.Errorf("store: persist: %w", err)
	}
	return nil
}

// Close persists the database if persistence is enabled.
func (e *Engine) Close() error {
	return e.persist()
}
