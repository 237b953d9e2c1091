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

package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kadirpekel/retrieval-core/internal/ingest"
)

const (
	extractSystemPrompt = "You extract indexing metadata from technical documents. " +
		"Reply with a single JSON object and nothing else: " +
		`{"primary_concepts": [...], "categories": [...]}. ` +
		"Concepts are short noun phrases naming a technique, theorem, or idea. " +
		"Categories are broad subject areas."

	summarizeSystemPrompt = "You write a two-to-three sentence summary of a document for a search index. " +
		"Reply with the summary text only, no preamble."
)

func extractPrompt(text string) string {
	return fmt.Sprintf("Extract concepts and categories from this text:\n\n%s", text)
}

// parseExtractReply tolerates a reply wrapped in a markdown code fence,
// since not every provider honors "JSON only" instructions exactly.
func parseExtractReply(reply string) (ingest.ExtractResult, error) {
	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")
	reply = strings.TrimSpace(reply)

	var parsed struct {
		PrimaryConcepts []string `json:"primary_concepts"`
		Categories      []string `json:"categories"`
	}
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
		return ingest.ExtractResult{}, fmt.Errorf("llm: parse extract reply: %w", err)
	}
	return ingest.ExtractResult{PrimaryConcepts: parsed.PrimaryConcepts, Categories: parsed.Categories}, nil
}
