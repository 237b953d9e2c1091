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

package search

import (
	"strings"

	"github.com/kadirpekel/retrieval-core/internal/expand"
	"github.com/kadirpekel/retrieval-core/internal/vectorutil"
)

const (
	bm25K1     = 1.5
	bm25B      = 0.75
	bm25AvgLen = 100.0
)

// score computes the five signals for c and combines them into a
// Result, per §4.5 steps 4-5. Scoring is pure: it cannot fail, and a
// candidate with no concept names or an empty document never yields
// more than a score of 0 for that signal.
func (s *Service) score(c Candidate, q expand.ExpandedQuery) Result {
	vectorScore := vectorutil.Clamp01(float64(1 - c.Distance))
	bm25Score := vectorutil.Clamp01(bm25(c.Text+" "+c.Source, q.AllTerms, q.Weights))
	titleScore := vectorutil.Clamp01(titleMatch(q.OriginalTerms, c.Source))

	conceptNames := s.conceptNames(c.ConceptIDs)
	conceptScore := vectorutil.Clamp01(conceptOverlap(conceptNames, q.AllTerms, q.Weights))
	wordnetScore := vectorutil.Clamp01(wordnetOverlap(q.LexicalTerms, c.Text))

	hybrid := weightVector*vectorScore + weightBM25*bm25Score + weightTitle*titleScore +
		weightConcept*conceptScore + weightWordnet*wordnetScore

	return Result{
		Candidate:       c,
		HybridScore:     hybrid,
		VectorScore:     vectorScore,
		BM25Score:       bm25Score,
		TitleScore:      titleScore,
		ConceptScore:    conceptScore,
		WordnetScore:    wordnetScore,
		MatchedConcepts: conceptNames,
	}
}

func (s *Service) conceptNames(ids []int32) []string {
	if len(ids) == 0 || s.concepts == nil {
		return nil
	}
	rows := s.concepts.FindByIDs(ids)
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, strings.ToLower(r.Concept))
	}
	return out
}

// bm25 scores doc against allTerms using BM25 with either-way substring
// matching (§4.5 step 4 bm25_score).
func bm25(doc string, allTerms []string, weights map[string]float64) float64 {
	if len(allTerms) == 0 {
		return 0
	}
	tokens := strings.Fields(strings.ToLower(doc))
	docLen := float64(len(tokens))

	var sum float64
	for _, term := range allTerms {
		tf := float64(countMatches(term, tokens))
		if tf == 0 {
			continue
		}
		denom := tf + bm25K1*(1-bm25B+bm25B*docLen/bm25AvgLen)
		score := (tf * (bm25K1 + 1)) / denom
		sum += score * weights[term]
	}
	return sum / float64(len(allTerms))
}

func countMatches(term string, tokens []string) int {
	count := 0
	for _, tok := range tokens {
		if strings.Contains(tok, term) || strings.Contains(term, tok) {
			count++
		}
	}
	return count
}

// titleMatch is the fraction of originalTerms that appear as a substring
// of source (§4.5 step 4 title_score).
func titleMatch(originalTerms []string, source string) float64 {
	if len(originalTerms) == 0 {
		return 0
	}
	source = strings.ToLower(source)
	matched := 0
	for _, t := range originalTerms {
		if strings.Contains(source, t) {
			matched++
		}
	}
	return float64(matched) / float64(len(originalTerms))
}

// conceptOverlap accumulates weights[qt] for each (conceptName, qt) pair
// that contain one another, normalized by |allTerms| (§4.5 step 4
// concept_score).
func conceptOverlap(conceptNames []string, allTerms []string, weights map[string]float64) float64 {
	if len(allTerms) == 0 {
		return 0
	}
	var sum float64
	for _, dc := range conceptNames {
		for _, qt := range allTerms {
			if strings.Contains(dc, qt) || strings.Contains(qt, dc) {
				sum += weights[qt]
			}
		}
	}
	return sum / float64(len(allTerms))
}

// wordnetOverlap is the fraction of lexicalTerms that appear as a
// substring of text, lowercased (§4.5 step 4 wordnet_score).
func wordnetOverlap(lexicalTerms []string, text string) float64 {
	if len(lexicalTerms) == 0 {
		return 0
	}
	text = strings.ToLower(text)
	matched := 0
	for _, t := range lexicalTerms {
		if strings.Contains(text, t) {
			matched++
		}
	}
	return float64(matched) / float64(len(lexicalTerms))
}
