// Command speedfog builds cluster documents from a fog database and
// generates fog-gate-connected DAGs from them (spec.md §6 "CLI surface").
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rbignon/speedfog/pkg/emit"
	"github.com/rbignon/speedfog/pkg/speedfog"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "cluster-build":
		err = runClusterBuild(os.Args[2:])
	case "generate":
		err = runGenerate(os.Args[2:])
	case "-version", "--version", "version":
		fmt.Printf("speedfog version %s\n", version)
		return
	case "-help", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown subcommand %q\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  speedfog cluster-build <fog-db> <out.json> [--metadata <meta>]")
	fmt.Fprintln(os.Stderr, "  speedfog generate [--config <cfg>] [--clusters <path>] [--seed <int>] [--out <dir>] [--spoiler] [--max-attempts <int>] [-v]")
}

func runClusterBuild(args []string) error {
	ctx := context.Background()

	fs := flag.NewFlagSet("cluster-build", flag.ExitOnError)
	metadataPath := fs.String("metadata", "", "Path to the cluster metadata document")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) != 2 {
		return fmt.Errorf("cluster-build requires <fog-db> and <out.json>")
	}
	fogDBPath, outPath := rest[0], rest[1]

	doc, err := speedfog.BuildClusters(ctx, fogDBPath, *metadataPath)
	if err != nil {
		return err
	}

	if err := emit.WriteClusterDoc(doc, outPath); err != nil {
		return fmt.Errorf("writing cluster document: %w", err)
	}

	fmt.Printf("Wrote %d clusters to %s\n", len(doc.Clusters), outPath)
	return nil
}

func runGenerate(args []string) error {
	ctx := context.Background()

	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to the run configuration document")
	clustersPath := fs.String("clusters", "", "Path to a pre-built cluster document")
	seedFlag := fs.Uint64("seed", 0, "Override the seed from config (0 = use config seed)")
	outDir := fs.String("out", ".", "Output directory for generated documents")
	writeSpoiler := fs.Bool("spoiler", false, "Also write the plain-text spoiler document")
	maxAttempts := fs.Int("max-attempts", 10, "Maximum retry attempts when seed is 0")
	verbose := fs.Bool("v", false, "Enable verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *configPath == "" {
		return fmt.Errorf("generate requires --config")
	}
	if *clustersPath == "" {
		return fmt.Errorf("generate requires --clusters")
	}

	if *verbose {
		fmt.Printf("Loading config from %s\n", *configPath)
	}
	cfg, err := speedfog.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *seedFlag != 0 {
		if *verbose {
			fmt.Printf("Overriding seed from %d to %d\n", cfg.Seed, *seedFlag)
		}
		cfg.Seed = *seedFlag
	}

	if *verbose {
		fmt.Printf("Loading clusters from %s\n", *clustersPath)
	}
	pool, err := speedfog.LoadPool(ctx, *clustersPath)
	if err != nil {
		return fmt.Errorf("loading clusters: %w", err)
	}

	if *verbose {
		fmt.Printf("Generating (seed=%d, max-attempts=%d)...\n", cfg.Seed, *maxAttempts)
	}
	result, err := speedfog.GenerateWithRetry(ctx, cfg, pool, *maxAttempts)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	graphDoc := emit.ToGraphDoc(result.Dag, result.BalanceReport)
	graphPath := filepath.Join(*outDir, fmt.Sprintf("graph_%d.json", result.Seed))
	if err := emit.WriteGraphDoc(graphDoc, graphPath); err != nil {
		return fmt.Errorf("writing graph document: %w", err)
	}
	fmt.Printf("Wrote graph document to %s (seed=%d)\n", graphPath, result.Seed)

	if *writeSpoiler {
		spoilerPath := filepath.Join(*outDir, fmt.Sprintf("spoiler_%d.txt", result.Seed))
		if err := emit.WriteSpoiler(result.Dag, result.BalanceReport, spoilerPath); err != nil {
			return fmt.Errorf("writing spoiler document: %w", err)
		}
		fmt.Printf("Wrote spoiler document to %s\n", spoilerPath)
	}

	if len(result.ValidateReport.Warnings) > 0 {
		for _, w := range result.ValidateReport.Warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
		}
	}

	if *verbose {
		printStats(result)
	}

	return nil
}

func printStats(result *speedfog.Result) {
	fmt.Println("\nGeneration statistics:")
	fmt.Printf("  Nodes: %d\n", len(result.Dag.Nodes))
	fmt.Printf("  Edges: %d\n", len(result.Dag.Edges))
	fmt.Printf("  Paths: %d\n", len(result.BalanceReport.Paths))
	fmt.Printf("  Weight spread: %d (min=%d max=%d avg=%.1f)\n",
		result.BalanceReport.Spread, result.BalanceReport.Min, result.BalanceReport.Max, result.BalanceReport.Avg)
	fmt.Printf("  Validation: %s\n", validationStatus(result.ValidateReport.Passed))
}

func validationStatus(passed bool) string {
	if passed {
		return "PASSED"
	}
	return "FAILED"
}
