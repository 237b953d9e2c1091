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

package ontology

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize caps the in-memory LRU tier.
const DefaultCacheSize = 4096

// CachedLookup wraps an inner Lookup with an in-memory LRU tier and an
// append-only on-disk tier, implementing §6.3's "file-backed map
// term -> [synset] ... appended to during ingestion and read-only during
// querying". Ingestion (writeThrough=true) appends every inner miss
// resolved via the underlying provider to disk; querying only reads the
// two cache tiers and the inner provider, never writing.
type CachedLookup struct {
	inner    Lookup
	memory   *lru.Cache[string, []Sense]
	diskPath string
	writeThrough bool

	mu   sync.Mutex
	disk map[string][]Sense
}

// NewCachedLookup constructs a cache in front of inner. diskPath may be
// empty (memory-only cache). When writeThrough is true, inner misses
// resolved by inner itself are persisted to diskPath; set true for the
// ingestion pipeline and false for query-time lookups (§6.3: read-only
// during querying).
func NewCachedLookup(inner Lookup, size int, diskPath string, writeThrough bool) (*CachedLookup, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	memory, err := lru.New[string, []Sense](size)
	if err != nil {
		return nil, fmt.Errorf("ontology: new lru: %w", err)
	}

	disk := map[string][]Sense{}
	if diskPath != "" {
		if f, err := os.Open(diskPath); err == nil {
			disk, err = parseEntries(f)
			f.Close()
			if err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("ontology: open disk cache %s: %w", diskPath, err)
		}
	}

	return &CachedLookup{
		inner:        inner,
		memory:       memory,
		diskPath:     diskPath,
		writeThrough: writeThrough,
		disk:         disk,
	}, nil
}

// Lookup implements Lookup: memory tier, then disk tier, then inner.
func (c *CachedLookup) Lookup(ctx context.Context, term string) ([]Sense, bool) {
	key := strings.ToLower(strings.TrimSpace(term))

	if senses, ok := c.memory.Get(key); ok {
		return senses, len(senses) > 0
	}

	c.mu.Lock()
	senses, diskHit := c.disk[key]
	c.mu.Unlock()
	if diskHit {
		c.memory.Add(key, senses)
		return senses, len(senses) > 0
	}

	senses, ok := c.inner.Lookup(ctx, key)
	c.memory.Add(key, senses)
	if ok && c.writeThrough && c.diskPath != "" {
		if err := c.appendDisk(key, senses); err == nil {
			c.mu.Lock()
			c.disk[key] = senses
			c.mu.Unlock()
		}
	}
	return senses, ok
}

func (c *CachedLookup) appendDisk(term string, senses []Sense) error {
	f, err := os.OpenFile(c.diskPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("ontology: open disk cache for append: %w", err)
	}
	defer f.Close()

	for _, sense := range senses {
		if _, err := fmt.Fprintln(f, formatEntry(term, sense)); err != nil {
			return fmt.Errorf("ontology: append disk cache: %w", err)
		}
	}
	return nil
}
