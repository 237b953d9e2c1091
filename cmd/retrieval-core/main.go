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

// Command retrieval-core is the CLI for the retrieval core.
//
// Usage:
//
//	retrieval-core ingest --config config.yaml path/to/document.txt
//	retrieval-core serve --config config.yaml
//	retrieval-core rebuild --config config.yaml
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/kadirpekel/retrieval-core/internal/config"
)

// CLI is kept intentionally trivial: it only constructs the application
// container and dispatches, per spec.md's explicit out-of-scope note on
// a CLI/HTTP surface.
type CLI struct {
	Ingest  IngestCmd  `cmd:"" help:"Ingest one document, or watch a directory, into the store."`
	Serve   ServeCmd   `cmd:"" help:"Start the MCP server over stdio."`
	Rebuild RebuildCmd `cmd:"" help:"Recompute related_concept_ids and document_count from the current tables."`
	Health  HealthCmd  `cmd:"" help:"Print the resilience executor's health summary and exit."`

	Config string `short:"c" help:"Path to config file." type:"path" default:"config.yaml"`
}

func (cli *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, fmt.Errorf("retrieval-core: %w", err)
	}
	return cfg, nil
}

func main() {
	cli := CLI{}
	kctx := kong.Parse(&cli,
		kong.Name("retrieval-core"),
		kong.Description("Retrieval core: concept-indexed document search over MCP."),
		kong.UsageOnError(),
	)

	err := kctx.Run(&cli)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
