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

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleCatalogSearch(ctx context.Context, _ *mcp.CallToolRequest, in CatalogSearchInput) (*mcp.CallToolResult, CatalogSearchOutput, error) {
	if err := requireNonEmpty("text", in.Text); err != nil {
		return nil, CatalogSearchOutput{}, err
	}
	limit := clampLimit(in.Limit, 10, catalogSearchMaxLimit)

	resp, err := s.catalogSearch.Search(ctx, in.Text, limit, in.Debug)
	if err != nil {
		return nil, CatalogSearchOutput{}, err
	}
	return nil, CatalogSearchOutput{Results: toCatalogHits(resp.Results), Debug: toDebugOutput(resp.Debug)}, nil
}
