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
	"math/rand"
	"time"
)

// RetryConfig configures the exponential-backoff retryer that sits
// innermost in the ResilientExecutor chain, replacing any ad-hoc retry
// loop elsewhere in the ingestion pipeline.
type RetryConfig struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration

	// Multiplier scales the delay after each failed attempt.
	Multiplier float64

	// Jitter is the fraction of the computed delay (0..1) added or
	// removed at random to avoid thundering-herd retries.
	Jitter float64
}

// DefaultRetryConfig returns a conservative default: 3 attempts, 200ms
// base delay, multiplier 2, 20% jitter.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   200 * time.Millisecond,
		Multiplier:  2,
		Jitter:      0.2,
	}
}

// Retryer retries a failing Op with exponential backoff and jitter.
type Retryer struct {
	cfg RetryConfig
}

// NewRetryer creates a Retryer with cfg, filling in a zero MaxAttempts,
// BaseDelay or Multiplier from DefaultRetryConfig. A zero Jitter is kept,
// so no jitter is applied.
func NewRetryer(cfg RetryConfig) *Retryer {
	def := DefaultRetryConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = def.BaseDelay
	}
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = def.Multiplier
	}
	return &Retryer{cfg: cfg}
}

// Run executes op, retrying on error up to cfg.MaxAttempts times with
// exponential backoff between attempts. It returns the last error if all
// attempts fail, or stops early if ctx is cancelled.
func (r *Retryer) Run(ctx context.Context, op Op) (any, error) {
	var lastErr error
	delay := r.cfg.BaseDelay

	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		val, err := op(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if attempt == r.cfg.MaxAttempts {
			break
		}

		wait := withJitter(delay, r.cfg.Jitter)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		delay = time.Duration(float64(delay) * r.cfg.Multiplier)
	}

	return nil, lastErr
}

func withJitter(d time.Duration, jitter float64) time.Duration {
	if jitter <= 0 {
		return d
	}
	delta := float64(d) * jitter
	offset := (rand.Float64()*2 - 1) * delta
	result := float64(d) + offset
	if result < 0 {
		result = 0
	}
	return time.Duration(result)
}
