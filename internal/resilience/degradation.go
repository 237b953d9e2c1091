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

import "context"

// Degradation describes a primary operation with a fallback path taken
// either pre-emptively (ShouldDegrade) or reactively (primary failed).
type Degradation struct {
	// Primary is the preferred operation.
	Primary Op

	// Fallback runs instead of Primary when ShouldDegrade() is true, or
	// after Primary returns an error.
	Fallback Op

	// ShouldDegrade is consulted before attempting Primary. A nil func
	// means "never pre-emptively degrade".
	ShouldDegrade func() bool
}

// Execute runs d.Fallback immediately if d.ShouldDegrade() reports true
// (e.g. the circuit for Primary's dependency is open), otherwise runs
// d.Primary and falls back to d.Fallback if it errors.
func Execute(ctx context.Context, d Degradation) (any, error) {
	if d.ShouldDegrade != nil && d.ShouldDegrade() {
		return d.Fallback(ctx)
	}

	val, err := d.Primary(ctx)
	if err == nil {
		return val, nil
	}
	return d.Fallback(ctx)
}

// EmptyConceptSetFallback is a pre-canned fallback for concept extraction:
// it degrades to an empty []string of concepts rather than failing the
// document (§4.7 idempotence: "writing chunks with empty concept_ids
// rather than failing the document").
func EmptyConceptSetFallback(_ context.Context) (any, error) {
	return []string{}, nil
}

// StaleCacheFallback returns a pre-canned fallback that always returns the
// given cached value, used when an ontology or corpus lookup is degraded.
func StaleCacheFallback(cached any) Op {
	return func(_ context.Context) (any, error) {
		return cached, nil
	}
}

// ConstantFallback returns a fallback that always returns value, nil.
func ConstantFallback(value any) Op {
	return func(_ context.Context) (any, error) {
		return value, nil
	}
}
