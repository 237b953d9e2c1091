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

import "strings"

// DefaultTargetChunkSize is the target chunk length in runes when
// ChunkConfig.TargetSize is unset.
const DefaultTargetChunkSize = 1000

// ChunkConfig controls Chunk's segmentation behavior.
type ChunkConfig struct {
	// TargetSize is the approximate chunk length in runes (§4.7 step 2:
	// "target-length segments").
	TargetSize int
}

// Chunk is one fixed-length segment of a document, carrying forward the
// Loc of the paragraphs it was assembled from.
type Chunk struct {
	Text string
	Loc  string
}

// ChunkRecords accumulates records into target-length segments,
// preserving paragraph boundaries when possible (§4.7 step 2): a
// paragraph is never split unless it alone exceeds TargetSize, in which
// case it is split on whitespace at the nearest boundary at or before the
// target length.
func ChunkRecords(records []Record, cfg ChunkConfig) []Chunk {
	target := cfg.TargetSize
	if target <= 0 {
		target = DefaultTargetChunkSize
	}

	var chunks []Chunk
	var buf strings.Builder
	var locs []string

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		chunks = append(chunks, Chunk{Text: strings.TrimSpace(buf.String()), Loc: strings.Join(locs, ";")})
		buf.Reset()
		locs = locs[:0]
	}

	for _, r := range records {
		if len([]rune(r.Text)) > target {
			flush()
			chunks = append(chunks, splitOversizedParagraph(r, target)...)
			continue
		}
		if buf.Len() > 0 && len([]rune(buf.String()))+len([]rune(r.Text)) > target {
			flush()
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(r.Text)
		locs = append(locs, r.Loc)
	}
	flush()

	return chunks
}

// splitOversizedParagraph breaks a single paragraph that alone exceeds
// target into word-boundary-aligned segments, all sharing the paragraph's
// original Loc.
func splitOversizedParagraph(r Record, target int) []Chunk {
	words := strings.Fields(r.Text)
	var out []Chunk
	var buf strings.Builder

	for _, w := range words {
		if buf.Len() > 0 && len([]rune(buf.String()))+1+len([]rune(w)) > target {
			out = append(out, Chunk{Text: buf.String(), Loc: r.Loc})
			buf.Reset()
		}
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(w)
	}
	if buf.Len() > 0 {
		out = append(out, Chunk{Text: buf.String(), Loc: r.Loc})
	}
	return out
}
