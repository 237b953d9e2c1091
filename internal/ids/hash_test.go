package ids

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashToIDDeterministic(t *testing.T) {
	a := HashToID("repository pattern")
	b := HashToID("repository pattern")
	assert.Equal(t, a, b)
	assert.GreaterOrEqual(t, a, int32(0))
}

func TestHashToIDDistinctStrings(t *testing.T) {
	a := HashToID("alpha")
	b := HashToID("beta")
	assert.NotEqual(t, a, b)
}

func TestHashToIDNeverNegative(t *testing.T) {
	samples := []string{"", "a", "concept-rag", "The Quick Brown Fox", "日本語"}
	for _, s := range samples {
		id := HashToID(s)
		require.GreaterOrEqual(t, id, int32(0))
	}
}

func TestNormalizeConcept(t *testing.T) {
	cases := map[string]string{
		"Repository Pattern":    "repository pattern",
		"  repository   PATTERN ": "repository pattern",
		"singleword":            "singleword",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeConcept(in))
	}
}

func TestChunkKey(t *testing.T) {
	assert.Equal(t, "book.pdf#0", ChunkKey("book.pdf", 0))
	assert.Equal(t, "book.pdf#12", ChunkKey("book.pdf", 12))
}

func TestContentHashDeterministic(t *testing.T) {
	h1 := ContentHash([]byte("hello world"))
	h2 := ContentHash([]byte("hello world"))
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
}

func TestContentHashDiffersOnChange(t *testing.T) {
	h1 := ContentHash([]byte("hello world"))
	h2 := ContentHash([]byte("hello world!"))
	assert.NotEqual(t, h1, h2)
}
