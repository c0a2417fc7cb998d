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
	"path/filepath"
	"strings"

	"finrag/cmd/common"
	"finrag/internal/config"
	"finrag/pkg/document/parser"
	"finrag/pkg/orchestrator"
	"finrag/pkg/persist"
)

func runIngest(args []string) error {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", "config.json", "Path to configuration file")
	recursive := fs.Bool("recursive", false, "Recursively process directories")
	sector := fs.String("sector", "", "Override sector metadata for every ingested chunk")
	company := fs.String("company", "", "Override company metadata for every ingested chunk")
	year := fs.String("year", "", "Override year metadata for every ingested chunk")
	verbose := fs.Bool("verbose", false, "Show detailed processing information")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: finrag ingest [options] <file-or-directory>...

Build a retrieval tree from source documents, replacing any saved tree.

Options:
  -config string
        Path to configuration file (default "config.json")
  -recursive
        Recursively process directories
  -sector string
        Override sector metadata for every ingested chunk
  -company string
        Override company metadata for every ingested chunk
  -year string
        Override year metadata for every ingested chunk
  -verbose
        Show detailed processing information

Examples:
  # Ingest a single filing
  finrag ingest filing.txt

  # Ingest a directory of filings, recursively
  finrag ingest -recursive ./filings

  # Force sector/company metadata that the text doesn't make explicit
  finrag ingest -sector technology -company "Apple Inc." report.txt
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("at least one file or directory path is required")
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

	override := map[string]string{}
	if *sector != "" {
		override["sector"] = *sector
	}
	if *company != "" {
		override["company"] = *company
	}
	if *year != "" {
		override["year"] = *year
	}

	var paths []string
	for _, p := range fs.Args() {
		found, err := collectPaths(p, *recursive)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to walk %s: %v\n", p, err)
			continue
		}
		paths = append(paths, found...)
	}

	registry := parser.NewDefaultRegistry()

	var docs []orchestrator.Document
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to open %s: %v\n", p, err)
			continue
		}
		if *verbose {
			fmt.Printf("Processing: %s\n", p)
		}
		parsed, err := registry.ParseFile(f, p, strings.ToLower(filepath.Ext(p)))
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to parse %s: %v\n", p, err)
			continue
		}
		docs = append(docs, orchestrator.Document{Text: parsed.Content, Metadata: override})
	}

	if len(docs) == 0 {
		return fmt.Errorf("no supported documents found")
	}

	if err := system.Orchestrator.AddDocuments(ctx, docs); err != nil {
		return fmt.Errorf("failed to build retrieval tree: %w", err)
	}

	if err := system.Orchestrator.Save(cfg.Persistence.Dir, system.EmbeddingDimensions, persist.IndexConfig{
		ChunkSize:           cfg.Chunking.ChunkSize,
		ChunkOverlap:        cfg.Chunking.ChunkOverlap,
		MaxDepth:            cfg.Chunking.MaxDepth,
		ReductionDimension:  cfg.Clustering.ReductionDimension,
		MaxClusters:         cfg.Clustering.MaxClusters,
		MinClusterSize:      cfg.Clustering.MinClusterSize,
		MaxClusterSize:      cfg.Clustering.MaxClusterSize,
		SummarizationLength: cfg.Clustering.SummarizationLength,
	}); err != nil {
		return fmt.Errorf("failed to save retrieval tree: %w", err)
	}

	stats := system.Orchestrator.Statistics()
	fmt.Printf("\nIngestion complete:\n")
	fmt.Printf("  Documents processed: %d\n", len(docs))
	fmt.Printf("  Total nodes: %d\n", stats.TotalNodes)
	fmt.Printf("  Tree depth: %d\n", stats.TreeDepth)
	fmt.Printf("  Saved to: %s\n", cfg.Persistence.Dir)

	return nil
}

func collectPaths(root string, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if isSupportedDocument(root) {
			return []string{root}, nil
		}
		return nil, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		full := filepath.Join(root, entry.Name())
		if entry.IsDir() {
			if recursive {
				sub, err := collectPaths(full, recursive)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to walk %s: %v\n", full, err)
					continue
				}
				paths = append(paths, sub...)
			}
			continue
		}
		if isSupportedDocument(full) {
			paths = append(paths, full)
		}
	}
	return paths, nil
}

func isSupportedDocument(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".markdown", ".html", ".htm", ".pdf":
		return true
	default:
		return false
	}
}
