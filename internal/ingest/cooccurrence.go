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
	"sort"

	"github.com/kadirpekel/retrieval-core/internal/store"
)

// DefaultRelatedConceptLimit is the top-N cap on related_concept_ids
// (§4.7 step 5: "top-N by co-occurrence count").
const DefaultRelatedConceptLimit = 5

// recomputeRelated counts, over every chunk that mentions concept, how
// often each other concept_id co-occurs in the same chunk, and returns
// the topN most frequent, descending by count then ascending by ID for
// determinism.
func recomputeRelated(concepts *store.ConceptRepository, chunks *store.ChunkRepository, concept store.ConceptRow, topN int) []int32 {
	if topN <= 0 {
		topN = DefaultRelatedConceptLimit
	}

	mentions := chunks.FindByConceptName(concepts, concept.Concept, 0)

	counts := make(map[int32]int)
	for _, chunk := range mentions {
		for _, id := range chunk.ConceptIDs {
			if id == concept.ID {
				continue
			}
			counts[id]++
		}
	}

	type scored struct {
		id    int32
		count int
	}
	ranked := make([]scored, 0, len(counts))
	for id, count := range counts {
		ranked = append(ranked, scored{id: id, count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].id < ranked[j].id
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	out := make([]int32, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.id)
	}
	return out
}
