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
	"log/slog"
	"strings"

	"github.com/kadirpekel/retrieval-core/internal/embedding"
	"github.com/kadirpekel/retrieval-core/internal/ids"
	"github.com/kadirpekel/retrieval-core/internal/ontology"
	"github.com/kadirpekel/retrieval-core/internal/resilience"
	"github.com/kadirpekel/retrieval-core/internal/store"
)

// DefaultBatchSize is N, the number of chunks per extractor call (§4.7
// step 3: "N tuned per LLM context window").
const DefaultBatchSize = 20

// DefaultMaxCategories caps the categories unioned per document (§4.7
// step 4).
const DefaultMaxCategories = 7

// Config controls Pipeline's batching and caps.
type Config struct {
	BatchSize           int
	MaxCategories       int
	ChunkSize           ChunkConfig
	RelatedConceptLimit int
}

func (c *Config) setDefaults() {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.MaxCategories <= 0 {
		c.MaxCategories = DefaultMaxCategories
	}
	if c.RelatedConceptLimit <= 0 {
		c.RelatedConceptLimit = DefaultRelatedConceptLimit
	}
}

// Result reports what Ingest did for one document.
type Result struct {
	CatalogID          int32
	Filename           string
	Skipped            bool // same filename + hash already present (§4.7 "Idempotence")
	Reingested         bool // hash differed; old rows were cascade-deleted first
	ChunksWritten      int
	ConceptsWritten    int
	IncompleteCoverage bool // at least one extractor batch failed; some chunks have empty concept_ids
}

// Pipeline implements the ingestion algorithm of §4.7:
// Loader -> chunker -> ConceptExtractor(resilient) -> IdAssigner ->
// Repositories.bulk_write -> vector index build.
type Pipeline struct {
	store      *store.Store
	loader     Loader
	extractor  ConceptExtractor
	summarizer Summarizer
	embedder   embedding.Embedder
	ontology   ontology.Lookup // optional; nil disables enrichment
	exec       *resilience.Executor
	cfg        Config
	logger     *slog.Logger
}

// New constructs a Pipeline. summarizer and ontologyLookup may be nil.
func New(st *store.Store, loader Loader, extractor ConceptExtractor, summarizer Summarizer, embedder embedding.Embedder, ontologyLookup ontology.Lookup, exec *resilience.Executor, cfg Config, logger *slog.Logger) *Pipeline {
	cfg.setDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		store: st, loader: loader, extractor: extractor, summarizer: summarizer,
		embedder: embedder, ontology: ontologyLookup, exec: exec, cfg: cfg, logger: logger,
	}
}

// Ingest runs the full pipeline for one document at path, filed under
// filename (the stable identity used for idempotence and IDs).
func (p *Pipeline) Ingest(ctx context.Context, path, filename string) (Result, error) {
	records, err := p.loader.Load(ctx, path)
	if err != nil {
		return Result{}, err
	}

	fullText := joinRecords(records)
	hash := ids.ContentHash([]byte(fullText))
	catalogID := ids.HashToID(filename)

	reingested := false
	if existing, ok := p.store.Catalog.FindBySource(filename); ok {
		if existing.Hash == hash {
			return Result{CatalogID: existing.ID, Filename: filename, Skipped: true}, nil
		}
		if err := p.store.Chunks.DeleteByCatalogID(ctx, existing.ID); err != nil {
			return Result{}, err
		}
		if err := p.store.Catalog.DeleteByFilename(ctx, filename); err != nil {
			return Result{}, err
		}
		reingested = true
	}

	segments := ChunkRecords(records, p.cfg.ChunkSize)
	assignments, incomplete := p.extractBatches(ctx, segments)

	conceptNames := uniqueConceptNames(assignments)
	categoryNames := unionCategories(assignments, p.cfg.MaxCategories)

	chunkVectors, err := p.embedBatch(ctx, textsOf(segments))
	if err != nil {
		return Result{}, err
	}

	categoryIDs := make([]int32, 0, len(categoryNames))
	for _, name := range categoryNames {
		categoryIDs = append(categoryIDs, ids.HashToID(ids.NormalizeConcept(name)))
	}

	chunkRows := make([]store.ChunkRow, 0, len(segments))
	for i, seg := range segments {
		conceptIDs := make([]int32, 0, len(assignments[i].concepts))
		for _, name := range assignments[i].concepts {
			conceptIDs = append(conceptIDs, ids.HashToID(ids.NormalizeConcept(name)))
		}
		chunkRows = append(chunkRows, store.ChunkRow{
			ID:          ids.HashToID(ids.ChunkKey(filename, i)),
			CatalogID:   catalogID,
			Hash:        ids.ContentHash([]byte(seg.Text)),
			Text:        seg.Text,
			Vector:      chunkVectors[i],
			ConceptIDs:  conceptIDs,
			CategoryIDs: categoryIDs,
			Loc:         seg.Loc,
		})
	}

	docVector, err := p.runEmbed(ctx, fullText)
	if err != nil {
		return Result{}, err
	}
	summary := p.summarize(ctx, fullText, segments)

	catalogRow := store.CatalogRow{
		ID: catalogID, Filename: filename, Hash: hash, Text: summary, Vector: docVector, CategoryIDs: categoryIDs,
	}
	if err := p.store.Catalog.BulkInsert(ctx, []store.CatalogRow{catalogRow}); err != nil {
		return Result{}, err
	}
	if err := p.store.Chunks.BulkInsert(ctx, chunkRows); err != nil {
		return Result{}, err
	}

	if err := p.upsertConcepts(ctx, conceptNames, catalogID); err != nil {
		return Result{}, err
	}
	p.refreshCategoryCounts(categoryNames, categoryIDs)

	if count, indexed, err := p.store.Engine.IndexedSize("chunks"); err == nil && indexed {
		p.logger.Info("chunk table at or above the ANN index threshold", "count", count)
	}

	return Result{
		CatalogID: catalogID, Filename: filename, Reingested: reingested,
		ChunksWritten: len(chunkRows), ConceptsWritten: len(conceptNames), IncompleteCoverage: incomplete,
	}, nil
}

type batchAssignment struct {
	concepts   []string
	categories []string
}

// extractBatches calls the extractor over ≤BatchSize-chunk groups,
// wrapped in resilience.ProfileLLM, and assigns each batch's concepts to
// every chunk within it. A batch that fails after retries/circuit
// breaking degrades to an empty assignment for its chunks rather than
// failing the whole document (§4.7 "Idempotence" / failure-mode note).
func (p *Pipeline) extractBatches(ctx context.Context, segments []Chunk) ([]batchAssignment, bool) {
	assignments := make([]batchAssignment, len(segments))
	incomplete := false

	for start := 0; start < len(segments); start += p.cfg.BatchSize {
		end := start + p.cfg.BatchSize
		if end > len(segments) {
			end = len(segments)
		}
		batch := segments[start:end]
		text := textsOf(batch)

		result, err := p.exec.Run(ctx, resilience.ProfileLLM, "ingest.extract_concepts", func(ctx context.Context) (any, error) {
			return p.extractor.Extract(ctx, strings.Join(text, "\n\n"))
		})
		if err != nil {
			p.logger.Warn("concept extraction batch failed, writing chunks with empty concept_ids", "batch_start", start, "batch_end", end, "error", err)
			incomplete = true
			continue
		}
		extracted, _ := result.(ExtractResult)
		for i := start; i < end; i++ {
			assignments[i] = batchAssignment{concepts: extracted.PrimaryConcepts, categories: extracted.Categories}
		}
	}
	return assignments, incomplete
}

func (p *Pipeline) upsertConcepts(ctx context.Context, names []string, catalogID int32) error {
	for _, name := range names {
		vec, err := p.runEmbed(ctx, name)
		if err != nil {
			return err
		}
		concept, err := p.store.Concepts.Upsert(ctx, name, vec, catalogID)
		if err != nil {
			return err
		}
		p.enrichConcept(ctx, concept)
	}
	return nil
}

// enrichConcept recomputes related_concept_ids from corpus co-occurrence
// and, when an ontology lookup is configured, attaches synonyms and
// hypernym-derived broader terms (§4.7 step 5). Narrower terms have no
// ontology.Sense equivalent and are left empty.
func (p *Pipeline) enrichConcept(ctx context.Context, concept store.ConceptRow) {
	related := recomputeRelated(p.store.Concepts, p.store.Chunks, concept, p.cfg.RelatedConceptLimit)

	var synonyms, broader []string
	if p.ontology != nil {
		result, err := p.exec.Run(ctx, resilience.ProfileDatabase, "ingest.ontology_lookup", func(ctx context.Context) (any, error) {
			senses, _ := p.ontology.Lookup(ctx, concept.Concept)
			return senses, nil
		})
		if err == nil {
			if senses, ok := result.([]ontology.Sense); ok {
				for _, s := range senses {
					synonyms = append(synonyms, s.Synonyms...)
					broader = append(broader, s.Hypernyms...)
				}
			}
		}
	}

	if err := p.store.Concepts.SetEnrichment(ctx, concept.ID, related, synonyms, broader, nil); err != nil {
		p.logger.Warn("failed to set concept enrichment", "concept", concept.Concept, "error", err)
	}
}

func (p *Pipeline) refreshCategoryCounts(names []string, categoryIDs []int32) {
	for i, name := range names {
		count := int32(len(p.store.Catalog.FindByCategory(categoryIDs[i])))
		p.store.Categories.Upsert(categoryIDs[i], name, count)
	}
}

func (p *Pipeline) summarize(ctx context.Context, fullText string, segments []Chunk) string {
	if p.summarizer != nil {
		result, err := p.exec.Run(ctx, resilience.ProfileLLM, "ingest.summarize", func(ctx context.Context) (any, error) {
			return p.summarizer.Summarize(ctx, fullText)
		})
		if err == nil {
			if summary, ok := result.(string); ok && summary != "" {
				return summary
			}
		}
		p.logger.Warn("summarizer unavailable, falling back to first chunk")
	}
	if len(segments) > 0 {
		return segments[0].Text
	}
	return ""
}

func (p *Pipeline) runEmbed(ctx context.Context, text string) ([]float32, error) {
	result, err := p.exec.Run(ctx, resilience.ProfileEmbedding, "ingest.embed", func(ctx context.Context) (any, error) {
		return p.embedder.Embed(ctx, text)
	})
	if err != nil {
		return nil, err
	}
	vec, _ := result.([]float32)
	return vec, nil
}

func (p *Pipeline) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	result, err := p.exec.Run(ctx, resilience.ProfileEmbedding, "ingest.embed_batch", func(ctx context.Context) (any, error) {
		return p.embedder.EmbedBatch(ctx, texts)
	})
	if err != nil {
		return nil, err
	}
	vecs, _ := result.([][]float32)
	return vecs, nil
}

func joinRecords(records []Record) string {
	texts := make([]string, 0, len(records))
	for _, r := range records {
		texts = append(texts, r.Text)
	}
	return strings.Join(texts, "\n\n")
}

func textsOf(segments []Chunk) []string {
	out := make([]string, 0, len(segments))
	for _, s := range segments {
		out = append(out, s.Text)
	}
	return out
}

func uniqueConceptNames(assignments []batchAssignment) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, a := range assignments {
		for _, name := range a.concepts {
			key := ids.NormalizeConcept(name)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

func unionCategories(assignments []batchAssignment, maxCategories int) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, a := range assignments {
		for _, name := range a.categories {
			key := ids.NormalizeConcept(name)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			if len(out) >= maxCategories {
				return out
			}
			seen[key] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}
