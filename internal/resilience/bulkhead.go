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
	"sync/atomic"
)

// BulkheadConfig bounds concurrency for one operation name.
type BulkheadConfig struct {
	MaxConcurrent int
	MaxQueue      int
}

// BulkheadMetrics is a point-in-time snapshot for health reporting.
type BulkheadMetrics struct {
	Name          string
	MaxConcurrent int
	MaxQueue      int
	InFlight      int64
	Queued        int64
	Rejected      int64
}

// Bulkhead limits concurrent executions of one named operation: it runs
// immediately if a slot is free, queues FIFO up to MaxQueue, or rejects
// synchronously with *BulkheadRejectionError.
type Bulkhead struct {
	name string
	cfg  BulkheadConfig

	sem   chan struct{}
	queue int64 // current queued waiters, atomic

	inFlight int64
	rejected int64
}

// NewBulkhead creates a bulkhead named name with cfg.
func NewBulkhead(name string, cfg BulkheadConfig) *Bulkhead {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	return &Bulkhead{
		name: name,
		cfg:  cfg,
		sem:  make(chan struct{}, cfg.MaxConcurrent),
	}
}

// Execute runs op once a slot is available, queuing if all slots are busy
// (up to MaxQueue waiters), or rejecting synchronously once the queue is
// also full.
func (b *Bulkhead) Execute(ctx context.Context, op Op) (any, error) {
	if atomic.LoadInt64(&b.queue) >= int64(b.cfg.MaxQueue) && len(b.sem) >= cap(b.sem) {
		atomic.AddInt64(&b.rejected, 1)
		return nil, &BulkheadRejectionError{Name: b.name, MaxConcurrent: b.cfg.MaxConcurrent, MaxQueue: b.cfg.MaxQueue}
	}

	atomic.AddInt64(&b.queue, 1)
	select {
	case b.sem <- struct{}{}:
		atomic.AddInt64(&b.queue, -1)
	case <-ctx.Done():
		atomic.AddInt64(&b.queue, -1)
		return nil, ctx.Err()
	}

	atomic.AddInt64(&b.inFlight, 1)
	defer func() {
		atomic.AddInt64(&b.inFlight, -1)
		<-b.sem
	}()

	return op(ctx)
}

// Metrics returns a snapshot for health reporting.
func (b *Bulkhead) Metrics() BulkheadMetrics {
	return BulkheadMetrics{
		Name:          b.name,
		MaxConcurrent: b.cfg.MaxConcurrent,
		MaxQueue:      b.cfg.MaxQueue,
		InFlight:      atomic.LoadInt64(&b.inFlight),
		Queued:        atomic.LoadInt64(&b.queue),
		Rejected:      atomic.LoadInt64(&b.rejected),
	}
}

// IsFull reports whether the bulkhead currently has no free slot and no
// free queue position (used by health summaries).
func (b *Bulkhead) IsFull() bool {
	return len(b.sem) >= cap(b.sem) && atomic.LoadInt64(&b.queue) >= int64(b.cfg.MaxQueue)
}
