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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkRecords_PreservesParagraphBoundaries(t *testing.T) {
	records := []Record{
		{Text: "first short paragraph", Loc: "lines:1-1"},
		{Text: "second short paragraph", Loc: "lines:3-3"},
	}
	chunks := ChunkRecords(records, ChunkConfig{TargetSize: 1000})
	require.Len(t, chunks, 1, "both paragraphs fit under target size, so they merge into one chunk")
	require.Contains(t, chunks[0].Text, "first short paragraph")
	require.Contains(t, chunks[0].Text, "second short paragraph")
}

func TestChunkRecords_StartsNewChunkWhenTargetExceeded(t *testing.T) {
	records := []Record{
		{Text: strings.Repeat("a", 60), Loc: "lines:1-1"},
		{Text: strings.Repeat("b", 60), Loc: "lines:3-3"},
	}
	chunks := ChunkRecords(records, ChunkConfig{TargetSize: 100})
	require.Len(t, chunks, 2)
	require.Equal(t, strings.Repeat("a", 60), chunks[0].Text)
	require.Equal(t, strings.Repeat("b", 60), chunks[1].Text)
}

func TestChunkRecords_SplitsOversizedParagraphOnWordBoundary(t *testing.T) {
	words := make([]string, 50)
	for i := range words {
		words[i] = "word"
	}
	records := []Record{{Text: strings.Join(words, " "), Loc: "lines:1-5"}}
	chunks := ChunkRecords(records, ChunkConfig{TargetSize: 20})
	require.Greater(t, len(chunks), 1, "a single oversized paragraph must still be split")
	for _, c := range chunks {
		require.Equal(t, "lines:1-5", c.Loc, "split segments keep the paragraph's original Loc")
		require.NotContains(t, c.Text, "wor word", "splits happen on whitespace, never mid-word")
	}
}

func TestChunkRecords_DefaultsTargetSizeWhenUnset(t *testing.T) {
	chunks := ChunkRecords([]Record{{Text: "hello", Loc: "lines:1-1"}}, ChunkConfig{})
	require.Len(t, chunks, 1)
	require.Equal(t, "hello", chunks[0].Text)
}
