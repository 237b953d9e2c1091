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

import (
	"context"

	"github.com/kadirpekel/retrieval-core/internal/store"
)

// RebuildResult reports how many rows a Rebuild pass touched.
type RebuildResult struct {
	ConceptsRecomputed   int
	CategoriesRecomputed int
}

// Rebuild fully recomputes concept.related_concept_ids and
// category.document_count from the current contents of the four tables,
// without re-running extraction or re-embedding anything. It is the
// standalone maintenance pass described for the `rebuild` CLI mode: a
// corrective sweep after bulk edits or a corpus migration, not part of
// the per-document ingestion path.
func Rebuild(ctx context.Context, st *store.Store, relatedConceptLimit int) RebuildResult {
	if relatedConceptLimit <= 0 {
		relatedConceptLimit = DefaultRelatedConceptLimit
	}

	var result RebuildResult
	for _, concept := range st.Concepts.AllSortedByWeight() {
		related := recomputeRelated(st.Concepts, st.Chunks, concept, relatedConceptLimit)
		_ = st.Concepts.SetEnrichment(ctx, concept.ID, related, concept.Synonyms, concept.BroaderTerms, concept.NarrowerTerms)
		result.ConceptsRecomputed++
	}

	for _, category := range st.Categories.FindAll() {
		count := int32(len(st.Catalog.FindByCategory(category.ID)))
		st.Categories.Upsert(category.ID, category.Name, count)
		result.CategoriesRecomputed++
	}

	return result
}
