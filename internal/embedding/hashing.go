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

package embedding

import (
	"context"
	"hash/fnv"
	"strings"

	"github.com/kadirpekel/retrieval-core/internal/vectorutil"
)

const (
	// DefaultDimension is D for the built-in hashing embedder.
	DefaultDimension = 384

	// maxTokens bounds how many leading tokens contribute to the hash.
	maxTokens = 100
)

// HashingEmbedder is a deterministic, offline embedder: it tokenizes by
// whitespace, lower-cases, hashes each of the first min(n, 100) tokens into
// a bucket of a D-wide vector, and L2-normalizes the result.
//
// It has no external dependency and runs in well under a millisecond per
// call; its callers (the query expander, hybrid search and the ingestion
// pipeline) still run each call through the resilience executor's
// embedding profile.
type HashingEmbedder struct {
	dimension int
}

// NewHashingEmbedder constructs a HashingEmbedder for dimension d. d <= 0
// defaults to DefaultDimension.
func NewHashingEmbedder(d int) *HashingEmbedder {
	if d <= 0 {
		d = DefaultDimension
	}
	return &HashingEmbedder{dimension: d}
}

// Embed implements Embedder.
func (e *HashingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	v := make([]float32, e.dimension)
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) > maxTokens {
		tokens = tokens[:maxTokens]
	}
	for _, tok := range tokens {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		bucket := int(h.Sum32() % uint32(e.dimension))
		v[bucket]++
	}
	return vectorutil.Normalize(v), nil
}

// EmbedBatch implements Embedder by looping over Embed; the hashing
// embedder has no batching advantage.
func (e *HashingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Dimension implements Embedder.
func (e *HashingEmbedder) Dimension() int { return e.dimension }

// Model implements Embedder.
func (e *HashingEmbedder) Model() string { return "hashing-v1" }

var _ Embedder = (*HashingEmbedder)(nil)
