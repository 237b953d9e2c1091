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

// Package resilience composes timeout, circuit-breaker, bulkhead, retry,
// and graceful-degradation primitives into a single ResilientExecutor that
// protects every external-service call (LLM, embedding, database, search)
// made by the ingestion and query paths.
package resilience

import (
	"fmt"
	"time"
)

// TimeoutError is returned when an operation exceeds its allotted time.
// The underlying operation is not cancelled, only its result is discarded.
type TimeoutError struct {
	Name string
	Ms   int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("resilience: operation %q timed out after %dms", e.Name, e.Ms)
}

// CircuitBreakerOpenError is returned synchronously (in well under 10ms)
// when a breaker is OPEN.
type CircuitBreakerOpenError struct {
	Name      string
	OpenSince time.Time
}

func (e *CircuitBreakerOpenError) Error() string {
	return fmt.Sprintf("resilience: circuit %q is open (since %s)", e.Name, e.OpenSince.Format(time.RFC3339))
}

// BulkheadRejectionError is returned when a bulkhead's concurrency limit
// and queue are both exhausted.
type BulkheadRejectionError struct {
	Name        string
	MaxConcurrent int
	MaxQueue      int
}

func (e *BulkheadRejectionError) Error() string {
	return fmt.Sprintf("resilience: bulkhead %q is full (concurrent=%d queue=%d)", e.Name, e.MaxConcurrent, e.MaxQueue)
}
