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

package tool

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kadirpekel/retrieval-core/internal/apierrors"
)

func (s *Server) handleCategorySearch(ctx context.Context, _ *mcp.CallToolRequest, in CategorySearchInput) (*mcp.CallToolResult, CategorySearchOutput, error) {
	if err := requireNonEmpty("name", in.Name); err != nil {
		return nil, CategorySearchOutput{}, err
	}

	result, err := s.categorySearch.Search(ctx, in.Name)
	if err != nil {
		var nf *apierrors.NotFoundError
		if errors.As(err, &nf) {
			return nil, CategorySearchOutput{}, nil
		}
		return nil, CategorySearchOutput{}, err
	}

	documents := make([]string, 0, len(result.Documents))
	for _, d := range result.Documents {
		documents = append(documents, d.Filename)
	}
	concepts := s.resolveConceptNames(result.ConceptIDs)

	return nil, CategorySearchOutput{
		Category:  CategoryHit{Name: result.Category.Name, DocumentCount: result.Category.DocumentCount},
		Documents: documents,
		Concepts:  concepts,
	}, nil
}

func (s *Server) handleListCategories(ctx context.Context, _ *mcp.CallToolRequest, _ ListCategoriesInput) (*mcp.CallToolResult, ListCategoriesOutput, error) {
	rows := s.categorySearch.ListCategories(ctx)
	out := make([]CategoryHit, 0, len(rows))
	for _, r := range rows {
		out = append(out, CategoryHit{Name: r.Name, DocumentCount: r.DocumentCount})
	}
	return nil, ListCategoriesOutput{Categories: out}, nil
}
