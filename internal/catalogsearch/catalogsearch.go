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

// Package catalogsearch is the thin orchestrator behind the
// catalog_search tool (§2 "Catalog / chunk / category search services",
// §6.1): it has no logic of its own beyond delegating to the hybrid
// search service scoped to the catalog table.
package catalogsearch

import (
	"context"

	"github.com/kadirpekel/retrieval-core/internal/search"
)

const maxLimit = 20

// Service answers catalog_search.
type Service struct {
	hybrid *search.Service
}

// New constructs a Service over the shared hybrid search engine.
func New(hybrid *search.Service) *Service {
	return &Service{hybrid: hybrid}
}

// Search returns the top catalog documents for text, capped at 20 per
// the tool's documented input contract (§6.1: "limit<=20").
func (s *Service) Search(ctx context.Context, text string, limit int, debug bool) (search.Response, error) {
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}
	return s.hybrid.Search(ctx, search.TableCatalog, text, limit, debug)
}
