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

package main

import (
	"context"
	"fmt"

	"github.com/kadirpekel/retrieval-core/internal/app"
	"github.com/kadirpekel/retrieval-core/internal/ingest"
)

// RebuildCmd recomputes concept.related_concept_ids and
// category.document_count from the current table contents, without
// re-running extraction or re-embedding anything (SPEC_FULL §C).
type RebuildCmd struct {
	RelatedConceptLimit int `help:"Top-N cap on recomputed related_concept_ids." default:"5"`
}

func (c *RebuildCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	container, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("retrieval-core: %w", err)
	}
	defer container.Close()

	result := ingest.Rebuild(ctx, container.Store, c.RelatedConceptLimit)
	container.Logger.Info("rebuild complete",
		"concepts_recomputed", result.ConceptsRecomputed,
		"categories_recomputed", result.CategoriesRecomputed)
	return nil
}
