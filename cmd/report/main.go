package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"gap-trade-lab/internal/config"
	"gap-trade-lab/internal/reporting"
	pgstore "gap-trade-lab/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML run configuration (required)")
	runID := flag.String("run-id", "", "Run ID to report on (required)")
	format := flag.String("format", "markdown", "Output format: markdown, csv, json")
	outPath := flag.String("out", "", "Output file (default stdout)")

	flag.Parse()

	logger := log.New(os.Stderr, "[report] ", log.LstdFlags)

	if *configPath == "" {
		logger.Fatal("--config is required")
	}
	if *runID == "" {
		logger.Fatal("--run-id is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if cfg.Storage.Mode != config.StorageDB {
		logger.Fatal("storage.mode must be db: reports read persisted runs")
	}

	ctx := context.Background()

	pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
	if err != nil {
		logger.Fatalf("connect to postgres: %v", err)
	}
	defer pool.Close()

	gen := reporting.NewGenerator(pgstore.NewRunStore(pool), pgstore.NewTradeStore(pool))

	report, err := gen.Generate(ctx, *runID)
	if err != nil {
		logger.Fatalf("generate report: %v", err)
	}

	var out string
	switch *format {
	case "markdown":
		out = reporting.RenderMarkdown(report)
	case "csv":
		out = reporting.RenderCSV(report.Trades)
	case "json":
		b, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			logger.Fatalf("marshal report: %v", err)
		}
		out = string(b) + "\n"
	default:
		logger.Fatalf("Invalid format: %s. Must be markdown, csv, or json", *format)
	}

	if *outPath == "" {
		fmt.Print(out)
		return
	}
	if err := os.WriteFile(*outPath, []byte(out), 0o644); err != nil {
		logger.Fatalf("write %s: %v", *outPath, err)
	}
	logger.Printf("Report written to %s", *outPath)
}
