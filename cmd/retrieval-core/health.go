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
)

// HealthCmd prints the resilience executor's health snapshot (SPEC_FULL
// §C's HealthSummary surface) and exits non-zero if unhealthy.
type HealthCmd struct{}

func (c *HealthCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}

	container, err := app.New(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("retrieval-core: %w", err)
	}
	defer container.Close()

	summary := container.Tool.Health()
	fmt.Printf("healthy: %t\n", summary.Healthy)
	if len(summary.OpenCircuits) > 0 {
		fmt.Printf("open circuits: %v\n", summary.OpenCircuits)
	}
	if len(summary.FullBulkheads) > 0 {
		fmt.Printf("full bulkheads: %v\n", summary.FullBulkheads)
	}
	if !summary.Healthy {
		return fmt.Errorf("retrieval-core: unhealthy")
	}
	return nil
}
