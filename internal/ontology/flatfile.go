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

package ontology

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// FlatFileProvider is the bundled, read-only ontology backing: a
// WordNet-derived flat file loaded once at startup (§4.4 step 2: "an
// external ontology"). It never writes; disk caching of lookups that
// miss a bundled file is CachedLookup's job, not this provider's.
type FlatFileProvider struct {
	entries map[string][]Sense
}

// NewFlatFileProvider loads path into memory. A missing file is not an
// error: the provider simply has no entries, matching §6.3's "absence
// is not an error" for the ontology as a whole.
func NewFlatFileProvider(path string) (*FlatFileProvider, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &FlatFileProvider{entries: map[string][]Sense{}}, nil
		}
		return nil, fmt.Errorf("ontology: open %s: %w", path, err)
	}
	defer f.Close()

	entries, err := parseEntries(f)
	if err != nil {
		return nil, err
	}
	return &FlatFileProvider{entries: entries}, nil
}

// Lookup implements Lookup.
func (p *FlatFileProvider) Lookup(_ context.Context, term string) ([]Sense, bool) {
	senses, ok := p.entries[strings.ToLower(strings.TrimSpace(term))]
	return senses, ok
}
