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

package resilience

import (
	"context"
	"sync"
)

// Executor composes Bulkhead -> CircuitBreaker -> Timeout -> Retry
// (innermost) for every call, per §4.8. Circuit breakers and bulkheads
// are memoized by operation name so repeated calls with the same name
// share state; this is the single process-local source of resilience
// state referenced by §5 ("Circuit-breaker and bulkhead state is
// process-local and lives in the ResilientExecutor singleton").
type Executor struct {
	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
	bulkheads map[string]*Bulkhead
}

// NewExecutor creates an empty Executor.
func NewExecutor() *Executor {
	return &Executor{
		breakers:  make(map[string]*CircuitBreaker),
		bulkheads: make(map[string]*Bulkhead),
	}
}

// Run executes fn under profile, scoping circuit-breaker and bulkhead
// state to name. name is typically "<component>.<operation>", e.g.
// "llm_extractor.extract_batch" or "chromem.vector_search".
func (e *Executor) Run(ctx context.Context, profile Profile, name string, fn Op) (any, error) {
	bulkhead := e.bulkheadFor(name, profile.Bulkhead)

	coreOp := func(ctx context.Context) (any, error) {
		var breaker *CircuitBreaker
		if profile.CircuitBreaker != nil {
			breaker = e.breakerFor(name, *profile.CircuitBreaker)
		}

		retryer := NewRetryer(profile.Retry)
		retryOp := func(ctx context.Context) (any, error) {
			return retryer.Run(ctx, fn)
		}

		timedOp := func(ctx context.Context) (any, error) {
			return WithTimeout(ctx, name, profile.Timeout, retryOp)
		}

		if breaker == nil {
			return timedOp(ctx)
		}
		return breaker.Execute(ctx, timedOp)
	}

	return bulkhead.Execute(ctx, coreOp)
}

func (e *Executor) breakerFor(name string, cfg CircuitBreakerConfig) *CircuitBreaker {
	e.mu.Lock()
	defer e.mu.Unlock()
	if b, ok := e.breakers[name]; ok {
		return b
	}
	b := NewCircuitBreaker(name, cfg)
	e.breakers[name] = b
	return b
}

func (e *Executor) bulkheadFor(name string, cfg BulkheadConfig) *Bulkhead {
	e.mu.Lock()
	defer e.mu.Unlock()
	if b, ok := e.bulkheads[name]; ok {
		return b
	}
	b := NewBulkhead(name, cfg)
	e.bulkheads[name] = b
	return b
}

// BreakerIsOpen reports whether the named circuit is currently open; used
// as a ShouldDegrade predicate. Returns false if no breaker has been
// created for name yet (nothing has failed).
func (e *Executor) BreakerIsOpen(name string) bool {
	e.mu.Lock()
	b, ok := e.breakers[name]
	e.mu.Unlock()
	if !ok {
		return false
	}
	return b.IsOpen()
}

// HealthSummary reports overall resilience health.
type HealthSummary struct {
	Healthy      bool
	OpenCircuits []string
	FullBulkheads []string
}

// GetHealthSummary returns a snapshot of every memoized breaker and
// bulkhead's health.
func (e *Executor) GetHealthSummary() HealthSummary {
	e.mu.Lock()
	defer e.mu.Unlock()

	summary := HealthSummary{Healthy: true}
	for name, b := range e.breakers {
		if b.IsOpen() {
			summary.OpenCircuits = append(summary.OpenCircuits, name)
			summary.Healthy = false
		}
	}
	for name, b := range e.bulkheads {
		if b.IsFull() {
			summary.FullBulkheads = append(summary.FullBulkheads, name)
			summary.Healthy = false
		}
	}
	return summary
}
