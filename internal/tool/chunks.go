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

func (s *Server) handleChunksSearch(ctx context.Context, _ *mcp.CallToolRequest, in ChunksSearchInput) (*mcp.CallToolResult, ChunksSearchOutput, error) {
	if err := requireNonEmpty("text", in.Text); err != nil {
		return nil, ChunksSearchOutput{}, err
	}
	if err := requireNonEmpty("source", in.Source); err != nil {
		return nil, ChunksSearchOutput{}, err
	}
	limit := clampLimit(in.Limit, 10, 0)

	resp, err := s.chunkSearch.SearchWithinSource(ctx, in.Text, in.Source, limit)
	if err != nil {
		var nf *apierrors.NotFoundError
		if errors.As(err, &nf) {
			return nil, ChunksSearchOutput{}, nil
		}
		return nil, ChunksSearchOutput{}, err
	}
	return nil, ChunksSearchOutput{Results: toChunkHitsFromResults(resp.Results)}, nil
}

func (s *Server) handleBroadChunksSearch(ctx context.Context, _ *mcp.CallToolRequest, in BroadChunksSearchInput) (*mcp.CallToolResult, BroadChunksSearchOutput, error) {
	if err := requireNonEmpty("text", in.Text); err != nil {
		return nil, BroadChunksSearchOutput{}, err
	}
	limit := clampLimit(in.Limit, 10, 0)

	resp, err := s.chunkSearch.BroadSearch(ctx, in.Text, limit, in.Debug)
	if err != nil {
		return nil, BroadChunksSearchOutput{}, err
	}
	return nil, BroadChunksSearchOutput{Results: toChunkHitsFromResults(resp.Results), Debug: toDebugOutput(resp.Debug)}, nil
}
