package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"gap-trade-lab/internal/config"
	"gap-trade-lab/internal/ingest"
	"gap-trade-lab/internal/observability"
	"gap-trade-lab/internal/storage"
	chstore "gap-trade-lab/internal/storage/clickhouse"
	"gap-trade-lab/internal/storage/memory"
	"gap-trade-lab/internal/storage/migrations"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML run configuration (required)")
	barsCSV := flag.String("bars-csv", "", "Comma-separated intraday bar CSV files")
	closesCSV := flag.String("daily-closes-csv", "", "Comma-separated daily close CSV files")
	deriveCloses := flag.Bool("derive-daily-closes", false,
		"Derive per-ticker daily closes from stored bars after loading")
	dryRun := flag.Bool("dry-run", false, "Parse and validate files without writing to storage")

	flag.Parse()

	logger := log.New(os.Stderr, "[ingest] ", log.LstdFlags)

	if *configPath == "" {
		logger.Fatal("--config is required")
	}
	if *barsCSV == "" && *closesCSV == "" && !*deriveCloses {
		logger.Fatal("nothing to do: pass --bars-csv, --daily-closes-csv or --derive-daily-closes")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	// Dry runs parse into throwaway memory stores.
	var barStore storage.BarStore = memory.NewBarStore()
	var closeStore storage.DailyCloseStore = memory.NewDailyCloseStore()

	switch {
	case *dryRun:
		logger.Println("Dry run: nothing will be written")
	case cfg.Storage.Mode == config.StorageDB:
		conn, err := chstore.NewConn(ctx, cfg.Storage.ClickhouseDSN)
		if err != nil {
			logger.Fatalf("connect to clickhouse: %v", err)
		}
		defer conn.Close()

		if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
			logger.Fatalf("clickhouse migrations: %v", err)
		}

		barStore = chstore.NewBarStore(conn)
		closeStore = chstore.NewDailyCloseStore(conn)
	default:
		logger.Fatal("storage.mode must be db for ingestion; memory writes would be lost (use --dry-run to validate files)")
	}

	var obs *observability.Metrics
	if cfg.Observability.Enabled {
		obs = observability.NewMetrics("")
	}

	loader := ingest.NewLoader(barStore, closeStore, logger).WithObservability(obs)

	var totalBars, totalCloses int
	for _, path := range splitPaths(*barsCSV) {
		n := loadFile(ctx, logger, path, loader.LoadBars)
		totalBars += n
	}
	for _, path := range splitPaths(*closesCSV) {
		n := loadFile(ctx, logger, path, loader.LoadDailyCloses)
		totalCloses += n
	}

	if *deriveCloses {
		tickers := cfg.Universe.Tickers
		n, err := loader.DeriveDailyCloses(ctx, tickers)
		if err != nil {
			logger.Fatalf("derive daily closes: %v", err)
		}
		logger.Printf("Derived %d daily closes for %d tickers", n, len(tickers))
		totalCloses += n
	}

	logger.Printf("Ingest complete: %d bars, %d daily closes", totalBars, totalCloses)
}

func splitPaths(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func loadFile(ctx context.Context, logger *log.Logger, path string, load func(context.Context, io.Reader) (int, error)) int {
	f, err := os.Open(path)
	if err != nil {
		logger.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	n, err := load(ctx, f)
	if err != nil {
		logger.Fatalf("load %s: %v", path, err)
	}
	logger.Printf("Loaded %d records from %s", n, path)
	return n
}
