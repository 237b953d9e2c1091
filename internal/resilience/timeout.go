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
	"time"
)

// Op is the shape every resilience primitive wraps: a context-aware
// operation returning an arbitrary result.
type Op func(ctx context.Context) (any, error)

// WithTimeout races op against a timer. If the timer fires first it
// returns a *TimeoutError; op keeps running in the background and its
// result, if any, is discarded. This matches §4.8: "the underlying
// operation is not cancelled, but its result is discarded."
func WithTimeout(ctx context.Context, name string, d time.Duration, op Op) (any, error) {
	type outcome struct {
		val any
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		v, err := op(ctx)
		ch <- outcome{v, err}
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case o := <-ch:
		return o.val, o.err
	case <-timer.C:
		return nil, &TimeoutError{Name: name, Ms: int(d.Milliseconds())}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
