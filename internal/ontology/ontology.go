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

// Package ontology resolves a lowercased term to its word-sense entries
// (synonyms, one level of hypernyms, and a gloss), as required by the
// query expander's lexical-ontology step (§4.4 step 2). Lookup failure
// (term not found, or the provider itself unreachable) is not an error:
// callers treat an absent entry as an empty expansion and proceed.
package ontology

import "context"

// Sense is one word-sense entry for a term.
type Sense struct {
	Synonyms  []string
	Hypernyms []string
	Gloss     string
}

// Lookup resolves term to its known senses. ok is false when term is
// absent from the ontology; that is the normal, expected outcome for
// most tokens and MUST NOT be treated as an error by callers.
type Lookup interface {
	Lookup(ctx context.Context, term string) (senses []Sense, ok bool)
}
