// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"finrag/cmd/common"
	"finrag/internal/config"
	"finrag/pkg/orchestrator"
	"finrag/pkg/retrieval"
)

func runQuery(args []string) error {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	configPath := fs.String("config", "config.json", "Path to configuration file")
	interactive := fs.Bool("interactive", false, "Run in interactive mode")
	verbose := fs.Bool("verbose", false, "Show the retrieved nodes alongside the answer")
	topK := fs.Int("k", 0, "Number of nodes to retrieve (0 uses the config default)")
	method := fs.String("method", "", "Retrieval method: hierarchical or flattened (default from config)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: finrag query [options] <question>

Ask a question against a saved retrieval tree.

Options:
  -config string
        Path to configuration file (default "config.json")
  -interactive
        Run in interactive mode for multiple queries
  -verbose
        Show the retrieved nodes alongside the answer
  -k int
        Number of nodes to retrieve (0 uses the config default)
  -method string
        Retrieval method: hierarchical or flattened

Examples:
  # Single query
  finrag query "What was Apple's revenue in 2023?"

  # Interactive mode
  finrag query -interactive

  # Force the flattened traversal strategy
  finrag query -method flattened "Compare revenue across all filings"
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

	if *interactive {
		return runInteractiveQuery(ctx, system, *verbose, *topK, retrieval.Method(*method))
	}

	if fs.NArg() < 1 {
		return fmt.Errorf("question is required")
	}

	question := strings.Join(fs.Args(), " ")
	return executeQuery(ctx, system, question, *verbose, *topK, retrieval.Method(*method))
}

func runInteractiveQuery(ctx context.Context, system *common.System, verbose bool, topK int, method retrieval.Method) error {
	fmt.Println("finrag - Interactive Mode")
	fmt.Println("Type 'exit' or 'quit' to exit")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("Query> ")
		if !scanner.Scan() {
			break
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			fmt.Println("Goodbye!")
			break
		}

		if err := executeQuery(ctx, system, question, verbose, topK, method); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		fmt.Println()
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}
	return nil
}

func executeQuery(ctx context.Context, system *common.System, question string, verbose bool, topK int, method retrieval.Method) error {
	fmt.Printf("Question: %s\n\n", question)

	resp, err := system.Orchestrator.Query(ctx, question, topK, method)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if verbose {
		displayVerboseResults(resp)
	} else {
		displayCompactResults(resp)
	}
	return nil
}

func displayVerboseResults(resp orchestrator.QueryResponse) {
	fmt.Printf("=== Retrieved Nodes (%s) ===\n", resp.RetrievalMethod)
	for i, n := range resp.RetrievedNodes {
		fmt.Printf("%d. [level %d] %s (score %.4f)\n", i+1, n.Level, n.ID, n.Score)
		fmt.Printf("   %s\n", n.TextPreview)
	}
	fmt.Println()

	fmt.Println("=== Answer ===")
	fmt.Println(resp.Answer)
}

func displayCompactResults(resp orchestrator.QueryResponse) {
	fmt.Println("Answer:")
	fmt.Println(resp.Answer)
}
