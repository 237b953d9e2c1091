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

import "time"

// Profile bundles timeout, retry, circuit-breaker, and bulkhead settings
// for one class of external dependency. The four predefined profiles
// below are part of the public contract; deviations require an explicit
// override (see internal/config).
type Profile struct {
	Name string

	Timeout time.Duration
	Retry   RetryConfig

	// CircuitBreaker is nil when the profile has no breaker (DATABASE,
	// SEARCH per §4.8's table).
	CircuitBreaker *CircuitBreakerConfig

	Bulkhead BulkheadConfig
}

var (
	// ProfileLLM guards calls to the external LLM concept extractor:
	// 30s timeout, 3 attempts, breaker opens after 5 failures for 60s,
	// bulkhead 5 concurrent / 10 queued.
	ProfileLLM = Profile{
		Name:    "llm_api",
		Timeout: 30 * time.Second,
		Retry:   RetryConfig{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond, Multiplier: 2, Jitter: 0.2},
		CircuitBreaker: &CircuitBreakerConfig{
			FailureThreshold: 5,
			OpenTimeout:      60 * time.Second,
			SuccessThreshold: 2,
			ResetTimeout:     5 * time.Minute,
		},
		Bulkhead: BulkheadConfig{MaxConcurrent: 5, MaxQueue: 10},
	}

	// ProfileEmbedding guards calls to a hosted embedding provider: 10s
	// timeout, 3 attempts, breaker opens after 5 failures for 30s,
	// bulkhead 10 concurrent / 20 queued.
	ProfileEmbedding = Profile{
		Name:    "embedding",
		Timeout: 10 * time.Second,
		Retry:   RetryConfig{MaxAttempts: 3, BaseDelay: 200 * time.Millisecond, Multiplier: 2, Jitter: 0.2},
		CircuitBreaker: &CircuitBreakerConfig{
			FailureThreshold: 5,
			OpenTimeout:      30 * time.Second,
			SuccessThreshold: 2,
			ResetTimeout:     5 * time.Minute,
		},
		Bulkhead: BulkheadConfig{MaxConcurrent: 10, MaxQueue: 20},
	}

	// ProfileDatabase guards repository calls to the vector store: 3s
	// timeout, 2 attempts, no breaker, bulkhead 20 concurrent / 50 queued.
	ProfileDatabase = Profile{
		Name:           "database",
		Timeout:        3 * time.Second,
		Retry:          RetryConfig{MaxAttempts: 2, BaseDelay: 100 * time.Millisecond, Multiplier: 2, Jitter: 0.2},
		CircuitBreaker: nil,
		Bulkhead:       BulkheadConfig{MaxConcurrent: 20, MaxQueue: 50},
	}

	// ProfileSearch guards the vector-search step of hybrid scoring: 5s
	// timeout, 2 attempts, no breaker, bulkhead 15 concurrent / 30 queued.
	ProfileSearch = Profile{
		Name:           "search",
		Timeout:        5 * time.Second,
		Retry:          RetryConfig{MaxAttempts: 2, BaseDelay: 100 * time.Millisecond, Multiplier: 2, Jitter: 0.2},
		CircuitBreaker: nil,
		Bulkhead:       BulkheadConfig{MaxConcurrent: 15, MaxQueue: 30},
	}
)
