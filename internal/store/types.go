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

// Package store is the repository layer over the four-table normalized
// model (catalog, chunks, concepts, categories). Each repository exposes
// typed CRUD and ID-based joins (the catalog, chunk and concept
// repositories also vector search), and contains no scoring logic (§4.3). The physical backing is an embedded chromem-go database;
// all cross-references are native int32 arrays (§3, never JSON strings).
package store

// CatalogRow is one ingested document (§3.1).
type CatalogRow struct {
	ID          int32
	Filename    string
	Hash        string
	Text        string
	Vector      []float32
	CategoryIDs []int32

	Title     string
	Author    string
	Year      string
	Publisher string
	ISBN      string
}

// ChunkRow is one fixed-size text segment of a document (§3.2).
type ChunkRow struct {
	ID         int32
	CatalogID  int32
	Hash       string
	Text       string
	Vector     []float32
	ConceptIDs []int32
	CategoryIDs []int32
	Loc        string
}

// ConceptRow is one canonical extracted term (§3.3).
type ConceptRow struct {
	ID                 int32
	Concept            string
	CatalogIDs         []int32
	RelatedConceptIDs  []int32
	Synonyms           []string
	BroaderTerms       []string
	NarrowerTerms      []string
	Weight             int32
	Vector             []float32
}

// CategoryRow is one taxonomy tag (§3.4).
type CategoryRow struct {
	ID            int32
	Name          string
	DocumentCount int32
}

// SearchHit pairs a row ID with its vector-search distance, ascending
// (closer first), as returned by VectorSearch.
type SearchHit struct {
	ID       int32
	Distance float32
}
