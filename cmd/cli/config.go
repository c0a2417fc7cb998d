// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"finrag/internal/config"
)

func runConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: finrag config <subcommand> [options]

Manage configuration for finrag.

Subcommands:
  show      Display the resolved configuration
  init      Create a default configuration file
  validate  Validate a configuration file

Examples:
  # Show current config
  finrag config show

  # Create default config
  finrag config init

  # Validate config
  finrag config validate config.json
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("subcommand is required")
	}

	switch fs.Arg(0) {
	case "show":
		return showConfig(fs.Args()[1:])
	case "init":
		return initConfig(fs.Args()[1:])
	case "validate":
		return validateConfig(fs.Args()[1:])
	default:
		return fmt.Errorf("unknown subcommand: %s", fs.Arg(0))
	}
}

func showConfig(args []string) error {
	configPath := "config.json"
	if len(args) > 0 {
		configPath = args[0]
	}

	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func initConfig(args []string) error {
	outputPath := "config.json"
	if len(args) > 0 {
		outputPath = args[0]
	}

	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("config file already exists: %s (delete it first or specify a different path)", outputPath)
	}

	if err := config.DefaultConfig().SaveToFile(outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Created default configuration: %s\n", outputPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Edit the config file to add your API keys")
	fmt.Println("2. Configure the persistence directory and any optional enrichment backends")
	fmt.Printf("3. Run 'finrag config validate %s' to verify\n", outputPath)
	return nil
}

func validateConfig(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("config file path is required")
	}

	cfg, err := config.LoadFromFile(args[0])
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	var errs []string
	if cfg.Providers.Embedding.Provider == "" {
		errs = append(errs, "providers.embedding.provider is required")
	}
	if cfg.Providers.Embedding.Model == "" {
		errs = append(errs, "providers.embedding.model is required")
	}
	if cfg.Providers.Summarization.Provider == "" {
		errs = append(errs, "providers.summarization.provider is required")
	}
	if cfg.Providers.QA.Provider == "" {
		errs = append(errs, "providers.qa.provider is required")
	}
	if cfg.Chunking.ChunkSize <= cfg.Chunking.ChunkOverlap {
		errs = append(errs, "chunking.chunk_size must be greater than chunking.chunk_overlap")
	}
	if cfg.Clustering.MinClusterSize > cfg.Clustering.MaxClusterSize {
		errs = append(errs, "clustering.min_cluster_size must not exceed clustering.max_cluster_size")
	}
	if cfg.Persistence.Dir == "" {
		errs = append(errs, "persistence.dir is required")
	}

	if len(errs) > 0 {
		fmt.Println("Validation errors:")
		for _, e := range errs {
			fmt.Printf("  - %s\n", e)
		}
		return fmt.Errorf("configuration is invalid")
	}

	fmt.Printf("Configuration is valid: %s\n", args[0])
	return nil
}
