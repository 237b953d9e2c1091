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
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Flat-file format (§6.3: "Format is opaque"): one sense per line,
// tab-separated `term\tsynonym,synonym\thypernym,hypernym\tgloss`.
// Multiple lines sharing a term accumulate as multiple senses. Blank
// lines and lines starting with "#" are ignored.

func parseEntries(r io.Reader) (map[string][]Sense, error) {
	out := make(map[string][]Sense)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) < 3 {
			return nil, fmt.Errorf("ontology: line %d: expected at least 3 tab-separated fields, got %d", line, len(fields))
		}
		term := strings.ToLower(strings.TrimSpace(fields[0]))
		if term == "" {
			continue
		}
		sense := Sense{
			Synonyms:  splitNonEmpty(fields[1], ","),
			Hypernyms: splitNonEmpty(fields[2], ","),
		}
		if len(fields) >= 4 {
			sense.Gloss = fields[3]
		}
		out[term] = append(out[term], sense)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ontology: scan: %w", err)
	}
	return out, nil
}

func formatEntry(term string, sense Sense) string {
	return strings.Join([]string{
		strings.ToLower(term),
		strings.Join(sense.Synonyms, ","),
		strings.Join(sense.Hypernyms, ","),
		sense.Gloss,
	}, "\t")
}

func splitNonEmpty(s, sep string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
