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

package tool

import (
	"sort"

	"github.com/kadirpekel/retrieval-core/internal/store"
)

// resolveConceptNames looks up each ID's concept name, silently dropping
// any ID that no longer resolves (a concept deleted out from under a
// stale reference is not this call's concern).
func (s *Server) resolveConceptNames(ids []int32) []string {
	rows := s.store.Concepts.FindByIDs(ids)
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Concept)
	}
	return out
}

// aggregateConceptIDsByFrequency counts how often each concept ID appears
// across chunks, the same cross-chunk aggregation §4.3's
// GetConceptsInCategory uses for its own union, and returns IDs sorted
// descending by count, then ascending by ID for a stable tiebreak.
func aggregateConceptIDsByFrequency(chunks []store.ChunkRow) []int32 {
	counts := make(map[int32]int)
	for _, c := range chunks {
		for _, id := range c.ConceptIDs {
			counts[id]++
		}
	}
	ids := make([]int32, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] < ids[j]
	})
	return ids
}

func (s *Server) categoryNames(categoryIDs []int32) []string {
	out := make([]string, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		if row, ok := s.store.Categories.FindByID(id); ok {
			out = append(out, row.Name)
		}
	}
	return out
}
