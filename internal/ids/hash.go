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

// Package ids provides the deterministic string-to-ID and content-hashing
// primitives that every table in the store is keyed by.
//
// HashToID is the only source of primary keys in the system: catalog,
// chunk, concept, and category IDs are all derived from stable strings
// through it. It must be byte-exact across processes and machines.
package ids

import (
	"crypto/sha256"
	"encoding/hex"
	"hash/fnv"
	"strconv"
	"strings"
)

// HashToID maps a string to a signed 32-bit ID using FNV-1a with the sign
// bit cleared, producing a value in [0, 2^31).
//
// Collisions between distinct strings are not detected or resolved; at
// corpus sizes of 10^4-10^5 concepts the probability is negligible and is
// an accepted tradeoff for determinism and simplicity.
func HashToID(s string) int32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return int32(h.Sum32() &^ (1 << 31))
}

// NormalizeConcept lower-cases and collapses internal whitespace, producing
// the canonical form that concept IDs are hashed from.
func NormalizeConcept(concept string) string {
	fields := strings.Fields(strings.ToLower(concept))
	return strings.Join(fields, " ")
}

// ChunkKey builds the stable key a chunk ID is hashed from: the owning
// catalog filename joined with the chunk's ordinal position.
func ChunkKey(filename string, ordinal int) string {
	return filename + "#" + strconv.Itoa(ordinal)
}

// ContentHash produces a hex-encoded SHA-256 digest of raw bytes, used to
// detect unchanged re-ingests and to cascade-delete a document's chunks.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
