// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"finrag/cmd/common"
	"finrag/internal/config"
)

func runStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	configPath := fs.String("config", "config.json", "Path to configuration file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: finrag stats [options]

Print the shape of a saved retrieval tree: total nodes, depth, and the
node count at each level.

Options:
  -config string
        Path to configuration file (default "config.json")
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadFromFile(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx := context.Background()
	system, err := common.InitializeSystem(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize system: %w", err)
	}
	defer system.Close()

	if _, err := system.Orchestrator.Load(cfg.Persistence.Dir); err != nil {
		return fmt.Errorf("failed to load retrieval tree from %s: %w", cfg.Persistence.Dir, err)
	}

	stats := system.Orchestrator.Statistics()
	fmt.Printf("Tree: %s\n", cfg.Persistence.Dir)
	fmt.Printf("  Total nodes: %d\n", stats.TotalNodes)
	fmt.Printf("  Depth: %d\n", stats.TreeDepth)
	for level, count := range stats.NodesPerLevel {
		fmt.Printf("  Level %d: %d nodes\n", level, count)
	}
	return nil
}
