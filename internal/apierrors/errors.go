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

// Package apierrors defines the typed error taxonomy tool handlers use to
// decide between isError:true and a well-formed empty result (§7).
package apierrors

import "fmt"

// ValidationError wraps input that fails the tool schema (empty text,
// limit out of range). Never retried; surfaced to the caller verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// NotFoundError marks a well-formed empty result (an unknown concept, an
// unknown source filename), not a failure. Callers should render this as
// empty content, not as isError:true.
type NotFoundError struct {
	Kind string // "concept", "source", "category", ...
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s %q", e.Kind, e.Key)
}

// ServiceUnavailableError wraps a transient-infrastructure failure that
// survived every retry and breaker probe.
type ServiceUnavailableError struct {
	Dependency string
	Err        error
}

func (e *ServiceUnavailableError) Error() string {
	return fmt.Sprintf("service unavailable: %s: %v", e.Dependency, e.Err)
}

func (e *ServiceUnavailableError) Unwrap() error { return e.Err }

// FatalError marks an invariant violation (e.g. a chunk referencing a
// concept that does not exist). It is logged at error level; the
// offending candidate is dropped and the overall call still returns what
// it can.
type FatalError struct {
	Invariant string
	Detail    string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("invariant violated: %s: %s", e.Invariant, e.Detail)
}
