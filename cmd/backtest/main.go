package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"gap-trade-lab/internal/backtest"
	"gap-trade-lab/internal/config"
	"gap-trade-lab/internal/ingest"
	"gap-trade-lab/internal/metrics"
	"gap-trade-lab/internal/observability"
	"gap-trade-lab/internal/regime"
	"gap-trade-lab/internal/reporting"
	"gap-trade-lab/internal/signal"
	"gap-trade-lab/internal/storage"
	chstore "gap-trade-lab/internal/storage/clickhouse"
	"gap-trade-lab/internal/storage/memory"
	"gap-trade-lab/internal/storage/migrations"
	pgstore "gap-trade-lab/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML run configuration (required)")
	barsCSV := flag.String("bars-csv", "", "Load intraday bars from CSV before running (memory mode)")
	closesCSV := flag.String("daily-closes-csv", "", "Load daily closes from CSV before running (memory mode)")
	persist := flag.Bool("persist", false, "Persist trades and run to storage (db mode)")
	outputJSON := flag.Bool("json", false, "Output run as JSON instead of Markdown report")

	flag.Parse()

	logger := log.New(os.Stderr, "[backtest] ", log.LstdFlags)

	if *configPath == "" {
		logger.Fatal("--config is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	ossignal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	// Observability endpoint
	var obs *observability.Metrics
	if cfg.Observability.Enabled {
		obs = observability.NewMetrics("")
		srv := &http.Server{Addr: cfg.Observability.ListenAddr, Handler: observability.Handler()}
		go func() {
			logger.Printf("Serving metrics on %s", cfg.Observability.ListenAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Printf("metrics server: %v", err)
			}
		}()
		defer srv.Close()
	}

	// Stores
	var barStore storage.BarStore = memory.NewBarStore()
	var closeStore storage.DailyCloseStore = memory.NewDailyCloseStore()
	var tradeStore storage.TradeStore = memory.NewTradeStore()
	var runStore storage.RunStore = memory.NewRunStore()

	if cfg.Storage.Mode == config.StorageDB {
		conn, err := chstore.NewConn(ctx, cfg.Storage.ClickhouseDSN)
		if err != nil {
			logger.Fatalf("connect to clickhouse: %v", err)
		}
		defer conn.Close()

		pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			logger.Fatalf("connect to postgres: %v", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatalf("postgres migrations: %v", err)
		}

		barStore = chstore.NewBarStore(conn)
		closeStore = chstore.NewDailyCloseStore(conn)
		tradeStore = pgstore.NewTradeStore(pool)
		runStore = pgstore.NewRunStore(pool)
	}

	// Optional CSV preload, for memory-mode runs against local files.
	if *barsCSV != "" || *closesCSV != "" {
		loader := ingest.NewLoader(barStore, closeStore, logger).WithObservability(obs)
		if *barsCSV != "" {
			loadCSV(ctx, logger, *barsCSV, loader.LoadBars)
		}
		if *closesCSV != "" {
			loadCSV(ctx, logger, *closesCSV, loader.LoadDailyCloses)
		}
	}

	// Strategy
	gen, err := signal.FromConfig(cfg.Strategy)
	if err != nil {
		logger.Fatalf("build strategy: %v", err)
	}

	// Regime filter
	var filter *regime.Filter
	if cfg.Regime.Enabled {
		benchmark, err := closeStore.GetBySymbol(ctx, cfg.Universe.BenchmarkSymbol)
		if err != nil {
			logger.Fatalf("load benchmark %s: %v", cfg.Universe.BenchmarkSymbol, err)
		}
		volIndex, err := closeStore.GetBySymbol(ctx, cfg.Universe.VolIndexSymbol)
		if err != nil {
			logger.Fatalf("load volatility index %s: %v", cfg.Universe.VolIndexSymbol, err)
		}
		filter = regime.NewFilter(benchmark, volIndex, regime.Options{
			SMAPeriod:    cfg.Regime.SMAPeriod,
			VolThreshold: cfg.Regime.VolThreshold,
			FailClosed:   cfg.Regime.FailClosed,
		})
		logger.Printf("Regime filter enabled: benchmark=%s (%d days) vol=%s (%d days)",
			cfg.Universe.BenchmarkSymbol, len(benchmark),
			cfg.Universe.VolIndexSymbol, len(volIndex))
	}

	runner := backtest.NewRunner(barStore, gen, filter, logger, backtest.Options{
		MinTradingDays:  cfg.Backtest.MinTradingDays,
		TrendSMAPeriod:  cfg.Backtest.TrendSMAPeriod,
		TrendFailClosed: cfg.Backtest.TrendFailClosed,
		Verbose:         cfg.Backtest.Verbose,
		Metrics: metrics.Options{
			BootstrapIterations: cfg.Metrics.BootstrapIterations,
			BootstrapSeed:       cfg.Metrics.BootstrapSeed,
		},
	}).WithObservability(obs)

	logger.Printf("Running backtest: strategy=%s tickers=%d", gen.Tag(), len(cfg.Universe.Tickers))
	start := time.Now()

	run, err := runner.Run(ctx, cfg.Universe.Tickers)
	if err != nil {
		logger.Fatalf("backtest failed: %v", err)
	}
	logger.Printf("Backtest done in %v: run=%s trades=%d verdict=%s (%d/5)",
		time.Since(start).Round(time.Millisecond), run.RunID,
		len(run.Trades), run.Verdict, run.ChecksPassed)

	if *persist {
		if len(run.Trades) > 0 {
			if err := tradeStore.InsertBulk(ctx, run.Trades); err != nil {
				logger.Fatalf("persist trades: %v", err)
			}
		}
		if err := runStore.Insert(ctx, run); err != nil {
			logger.Fatalf("persist run: %v", err)
		}
		logger.Printf("Persisted run %s with %d trades", run.RunID, len(run.Trades))
	}

	if *outputJSON {
		out, _ := json.MarshalIndent(run, "", "  ")
		fmt.Println(string(out))
		return
	}

	report := reporting.BuildReport(run, time.Now().UTC())
	fmt.Print(reporting.RenderMarkdown(report))
}

// loadCSV opens a file and feeds it to a loader method.
func loadCSV(ctx context.Context, logger *log.Logger, path string, load func(context.Context, io.Reader) (int, error)) {
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
}
