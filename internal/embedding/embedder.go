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

// Package embedding provides text embedding services for the retrieval
// engine. The default implementation is a deterministic hashing embedder
// with no external dependency; alternative providers must satisfy the same
// contract and are expected to run behind the resilience layer's EMBEDDING
// profile.
package embedding

import "context"

// Embedder produces vector embeddings from text.
type Embedder interface {
	// Embed converts text to a vector embedding of Dimension() length.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch converts multiple texts to vector embeddings. Providers
	// that can batch more efficiently than one call per text should
	// override this; the default embedder simply loops.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the fixed embedding width D for this deployment.
	Dimension() int

	// Model identifies the embedding model or strategy in use.
	Model() string
}
