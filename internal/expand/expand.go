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

// Package expand turns a raw query string into a weighted multiset of
// terms drawn from tokenization, lexical-ontology expansion, and nearest
// corpus concepts (§4.4). It is the sole producer of the weights the
// hybrid search service scores candidates against.
package expand

import (
	"context"
	"sort"
	"strings"

	"github.com/kadirpekel/retrieval-core/internal/embedding"
	"github.com/kadirpekel/retrieval-core/internal/ontology"
	"github.com/kadirpekel/retrieval-core/internal/resilience"
	"github.com/kadirpekel/retrieval-core/internal/store"
	"github.com/kadirpekel/retrieval-core/internal/vectorutil"
)

const (
	synonymWeight       = 0.6
	hypernymWeight      = 0.4
	conceptSelfWeight   = 0.8
	conceptRelatedWeight = 0.5
	corpusConceptK      = 10
	maxRelatedPerConcept = 5
	minTokenLength      = 3
)

// ExpandedQuery is the output of Expand (§4.4).
type ExpandedQuery struct {
	OriginalTerms []string
	LexicalTerms  []string
	CorpusTerms   []string
	AllTerms      []string
	Weights       map[string]float64
}

// Expander implements the query expansion algorithm of §4.4.
type Expander struct {
	ontology ontology.Lookup
	concepts *store.ConceptRepository
	embedder embedding.Embedder
	exec     *resilience.Executor
}

// New constructs an Expander. ontologyLookup or concepts may be nil, in
// which case the corresponding expansion step contributes nothing
// (graceful degradation, §4.4 "Failure").
func New(ontologyLookup ontology.Lookup, concepts *store.ConceptRepository, embedder embedding.Embedder, exec *resilience.Executor) *Expander {
	return &Expander{ontology: ontologyLookup, concepts: concepts, embedder: embedder, exec: exec}
}

// Expand runs the four-step algorithm of §4.4 and is deterministic given
// the same query, ontology cache, and concept table state.
func (e *Expander) Expand(ctx context.Context, query string) ExpandedQuery {
	weights := make(map[string]float64)

	original := tokenize(query)
	for _, t := range original {
		bumpMax(weights, t, 1.0)
	}

	lexical := e.expandLexical(ctx, original, weights)
	corpus := e.expandCorpus(ctx, query, weights)

	all := make([]string, 0, len(weights))
	for t := range weights {
		all = append(all, t)
	}
	sort.Strings(all)

	return ExpandedQuery{
		OriginalTerms: original,
		LexicalTerms:  lexical,
		CorpusTerms:   corpus,
		AllTerms:      all,
		Weights:       weights,
	}
}

func tokenize(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimFunc(f, isPunct)
		if len([]rune(f)) < minTokenLength {
			continue
		}
		out = append(out, f)
	}
	return out
}

func isPunct(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	default:
		return true
	}
}

// expandLexical implements §4.4 step 2. A failed or missing ontology
// lookup contributes nothing for that term; it never aborts expansion.
func (e *Expander) expandLexical(ctx context.Context, original []string, weights map[string]float64) []string {
	if e.ontology == nil {
		return nil
	}

	var lexical []string
	for _, term := range original {
		result, err := e.exec.Run(ctx, resilience.ProfileDatabase, "ontology.lookup", func(ctx context.Context) (any, error) {
			senses, ok := e.ontology.Lookup(ctx, term)
			if !ok {
				return []ontology.Sense(nil), nil
			}
			return senses, nil
		})
		if err != nil {
			continue
		}
		senses, _ := result.([]ontology.Sense)
		senses = filterTechnicalRelevance(senses, original)

		for _, sense := range senses {
			for _, syn := range sense.Synonyms {
				syn = strings.ToLower(syn)
				if bumpMax(weights, syn, synonymWeight) {
					lexical = append(lexical, syn)
				}
			}
			for _, hyper := range sense.Hypernyms {
				hyper = strings.ToLower(hyper)
				if bumpMax(weights, hyper, hypernymWeight) {
					lexical = append(lexical, hyper)
				}
			}
		}
	}
	return lexical
}

// filterTechnicalRelevance prefers senses whose gloss co-occurs with
// another query term or a generic technical marker word; if no sense
// scores above zero, every sense is kept (§4.4 step 2).
func filterTechnicalRelevance(senses []ontology.Sense, queryTerms []string) []ontology.Sense {
	if len(senses) == 0 {
		return senses
	}

	var relevant []ontology.Sense
	for _, sense := range senses {
		gloss := strings.ToLower(sense.Gloss)
		if gloss == "" {
			continue
		}
		if glossScoresPositive(gloss, queryTerms) {
			relevant = append(relevant, sense)
		}
	}
	if len(relevant) == 0 {
		return senses
	}
	return relevant
}

var technicalMarkers = []string{
	"algorithm", "system", "data", "process", "method", "structure",
	"function", "model", "network", "protocol",
}

func glossScoresPositive(gloss string, queryTerms []string) bool {
	for _, t := range queryTerms {
		if strings.Contains(gloss, t) {
			return true
		}
	}
	for _, m := range technicalMarkers {
		if strings.Contains(gloss, m) {
			return true
		}
	}
	return false
}

// expandCorpus implements §4.4 step 3. A failed embedding or vector
// search contributes nothing.
func (e *Expander) expandCorpus(ctx context.Context, query string, weights map[string]float64) []string {
	if e.concepts == nil || e.embedder == nil {
		return nil
	}

	qvec, err := e.runEmbed(ctx, query)
	if err != nil {
		return nil
	}

	result, err := e.exec.Run(ctx, resilience.ProfileSearch, "expand.corpus_concepts", func(ctx context.Context) (any, error) {
		return e.concepts.SearchConcepts(ctx, qvec, query, corpusConceptK)
	})
	if err != nil {
		return nil
	}
	hits, _ := result.([]store.ConceptRow)

	var corpus []string
	for _, concept := range hits {
		distance := vectorutil.CosineDistance(qvec, concept.Vector)
		selfWeight := float64(1-distance) * conceptSelfWeight
		name := strings.ToLower(concept.Concept)
		if bumpMax(weights, name, selfWeight) {
			corpus = append(corpus, name)
		}

		relatedCount := len(concept.RelatedConceptIDs)
		if relatedCount > maxRelatedPerConcept {
			relatedCount = maxRelatedPerConcept
		}
		related := e.concepts.FindByIDs(concept.RelatedConceptIDs[:relatedCount])
		relatedWeight := float64(1-distance) * conceptRelatedWeight
		for _, rc := range related {
			rname := strings.ToLower(rc.Concept)
			if bumpMax(weights, rname, relatedWeight) {
				corpus = append(corpus, rname)
			}
		}
	}
	return corpus
}

func (e *Expander) runEmbed(ctx context.Context, text string) ([]float32, error) {
	result, err := e.exec.Run(ctx, resilience.ProfileEmbedding, "expand.embed_query", func(ctx context.Context) (any, error) {
		return e.embedder.Embed(ctx, text)
	})
	if err != nil {
		return nil, err
	}
	vec, _ := result.([]float32)
	return vec, nil
}

// bumpMax sets weights[term] = max(weights[term], weight) and reports
// whether this call increased the stored weight (used so expansion-step
// term lists only include terms that step actually contributed to, per
// §4.4 step 4's "final weight = max of the weights assigned in steps 1-3").
func bumpMax(weights map[string]float64, term string, weight float64) bool {
	if term == "" {
		return false
	}
	current, ok := weights[term]
	if !ok || weight > current {
		weights[term] = weight
		return true
	}
	return false
}
