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

package store

import (
	"sort"
	"strconv"

	"github.com/philippgille/chromem-go"
)

// toSearchHits converts chromem's cosine-similarity results into ascending
// cosine-distance SearchHits sorted by distance then ID, matching §4.5
// step 6's tie-break rule ("ascending distance, then ascending id").
func toSearchHits(results []chromem.Result) []SearchHit {
	out := make([]SearchHit, 0, len(results))
	for _, r := range results {
		n, err := strconv.ParseInt(r.ID, 10, 32)
		if err != nil {
			continue
		}
		out = append(out, SearchHit{ID: int32(n), Distance: 1 - r.Similarity})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].ID < out[j].ID
	})
	return out
}
