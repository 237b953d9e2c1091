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

package ingest

import "context"

// ExtractResult is the external LLM extractor's output for one chunk
// batch (§1: "specified only as a function extractConcepts(text) ->
// {primary_concepts, categories}").
type ExtractResult struct {
	PrimaryConcepts []string
	Categories      []string
}

// ConceptExtractor calls an external LLM to pull concepts and categories
// out of a batch of chunk text. Implementations are expected to be thin
// API clients; retries, timeouts, circuit breaking, and bulkheading are
// applied by the pipeline around every call via resilience.ProfileLLM,
// not by the extractor itself.
type ConceptExtractor interface {
	Extract(ctx context.Context, text string) (ExtractResult, error)
}

// Summarizer produces a short document summary via a separate LLM call
// (§4.7 step 5: "summary is generated separately by a short LLM call").
// When unavailable, the pipeline falls back to the document's first
// chunk text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}
