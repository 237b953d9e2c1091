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
	"fmt"

	"github.com/kadirpekel/retrieval-core/internal/registry"
	"github.com/kadirpekel/retrieval-core/internal/resilience"
)

// Provider is the contract a hosted embedding API (as opposed to the
// built-in hashing embedder) must satisfy. Implementations wrap network
// calls only; resilience is applied by ResilientEmbedder, not the
// provider itself.
type Provider interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	Dimension() int
	Name() string
}

// Registry holds named embedding providers, mirroring the shape of the
// teacher's embedder provider registry.
type Registry struct {
	providers *registry.Registry[Provider]
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: registry.New[Provider]()}
}

// Register adds a provider under name.
func (r *Registry) Register(name string, p Provider) error {
	if p == nil {
		return fmt.Errorf("embedding: provider cannot be nil")
	}
	return r.providers.Register(name, p)
}

// Get retrieves a provider by name.
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers.Get(name)
	if !ok {
		return nil, fmt.Errorf("embedding: provider %q not found", name)
	}
	return p, nil
}

// ResilientEmbedder adapts a hosted Provider into the Embedder interface,
// running every call through the resilience layer's EMBEDDING profile
// (§4.2 of the design: "Alternative providers... MUST be wrapped by the
// resilience layer with the EMBEDDING profile").
type ResilientEmbedder struct {
	provider Provider
	exec     *resilience.Executor
	opName   string
}

// NewResilientEmbedder wraps provider behind exec using the EMBEDDING
// profile, registered under opName (so repeated embedders sharing opName
// share circuit-breaker and bulkhead state).
func NewResilientEmbedder(provider Provider, exec *resilience.Executor, opName string) *ResilientEmbedder {
	return &ResilientEmbedder{provider: provider, exec: exec, opName: opName}
}

// Embed implements Embedder.
func (e *ResilientEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	result, err := e.exec.Run(ctx, resilience.ProfileEmbedding, e.opName, func(ctx context.Context) (any, error) {
		return e.provider.EmbedText(ctx, text)
	})
	if err != nil {
		return nil, err
	}
	return result.([]float32), nil
}

// EmbedBatch implements Embedder by looping; hosted providers wanting true
// batch calls should be adapted at the Provider level.
func (e *ResilientEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
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
func (e *ResilientEmbedder) Dimension() int { return e.provider.Dimension() }

// Model implements Embedder.
func (e *ResilientEmbedder) Model() string { return e.provider.Name() }

var _ Embedder = (*ResilientEmbedder)(nil)
