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
	"time"
)

// State is one of the three circuit-breaker states.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures the state machine.
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive failures in CLOSED
	// that trips the breaker to OPEN.
	FailureThreshold int

	// OpenTimeout is how long the breaker stays OPEN before probing
	// (moving to HALF_OPEN).
	OpenTimeout time.Duration

	// SuccessThreshold is the number of consecutive successes in
	// HALF_OPEN required to close the breaker.
	SuccessThreshold int

	// ResetTimeout decays the failure counter after this much inactivity
	// while CLOSED.
	ResetTimeout time.Duration
}

// CircuitBreakerMetrics is a point-in-time snapshot for health reporting.
type CircuitBreakerMetrics struct {
	Name              string
	State             State
	TotalCalls        int64
	TotalFailures      int64
	ConsecutiveFails   int64
	OpenedAt          time.Time
}

// CircuitBreaker is a per-operation-name state machine: CLOSED -> OPEN on
// FailureThreshold consecutive failures, OPEN -> HALF_OPEN after
// OpenTimeout, HALF_OPEN -> CLOSED on SuccessThreshold consecutive
// successes or -> OPEN on any failure.
type CircuitBreaker struct {
	name string
	cfg  CircuitBreakerConfig

	mu               sync.Mutex
	state            State
	consecutiveFails int
	consecutiveOK    int
	openedAt         time.Time
	lastActivity     time.Time
	totalCalls       int64
	totalFailures    int64
}

// NewCircuitBreaker creates a breaker named name with cfg.
func NewCircuitBreaker(name string, cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 1
	}
	return &CircuitBreaker{
		name:         name,
		cfg:          cfg,
		state:        StateClosed,
		lastActivity: time.Now(),
	}
}

// Execute runs op if the breaker allows it, recording the outcome. When
// OPEN and the open timeout has not elapsed, it fails fast with a
// *CircuitBreakerOpenError in well under 10ms — no op call is attempted.
func (b *CircuitBreaker) Execute(ctx context.Context, op Op) (any, error) {
	if !b.allow() {
		b.mu.Lock()
		openedAt := b.openedAt
		b.mu.Unlock()
		return nil, &CircuitBreakerOpenError{Name: b.name, OpenSince: openedAt}
	}

	val, err := op(ctx)
	b.record(err == nil)
	return val, err
}

// allow reports whether a call may proceed, transitioning OPEN -> HALF_OPEN
// when the open timeout has elapsed.
func (b *CircuitBreaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()

	if b.state == StateClosed && b.cfg.ResetTimeout > 0 && now.Sub(b.lastActivity) > b.cfg.ResetTimeout {
		b.consecutiveFails = 0
	}

	switch b.state {
	case StateClosed:
		return true
	case StateOpen:
		if now.Sub(b.openedAt) >= b.cfg.OpenTimeout {
			b.state = StateHalfOpen
			b.consecutiveOK = 0
			return true
		}
		return false
	case StateHalfOpen:
		return true
	default:
		return true
	}
}

func (b *CircuitBreaker) record(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.totalCalls++
	b.lastActivity = time.Now()

	if success {
		switch b.state {
		case StateHalfOpen:
			b.consecutiveOK++
			b.consecutiveFails = 0
			if b.consecutiveOK >= b.cfg.SuccessThreshold {
				b.state = StateClosed
				b.consecutiveOK = 0
			}
		case StateClosed:
			b.consecutiveFails = 0
		}
		return
	}

	b.totalFailures++
	switch b.state {
	case StateHalfOpen:
		b.trip()
	case StateClosed:
		b.consecutiveFails++
		if b.consecutiveFails >= b.cfg.FailureThreshold {
			b.trip()
		}
	}
}

func (b *CircuitBreaker) trip() {
	b.state = StateOpen
	b.openedAt = time.Now()
	b.consecutiveOK = 0
}

// State returns the current state.
func (b *CircuitBreaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// IsOpen reports whether the breaker is currently OPEN (used by graceful
// degradation's shouldDegrade predicate).
func (b *CircuitBreaker) IsOpen() bool {
	return b.State() == StateOpen
}

// Metrics returns a snapshot of the breaker's state for health reporting.
func (b *CircuitBreaker) Metrics() CircuitBreakerMetrics {
	b.mu.Lock()
	defer b.mu.Unlock()
	return CircuitBreakerMetrics{
		Name:             b.name,
		State:            b.state,
		TotalCalls:       b.totalCalls,
		TotalFailures:    b.totalFailures,
		ConsecutiveFails: int64(b.consecutiveFails),
		OpenedAt:         b.openedAt,
	}
}
