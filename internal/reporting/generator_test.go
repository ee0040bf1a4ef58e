package reporting

import (
	"context"
	"strings"
	"testing"
	"time"

	"gap-trade-lab/internal/domain"
	"gap-trade-lab/internal/storage"
	"gap-trade-lab/internal/storage/memory"
)

func day(d int) time.Time {
	return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)
}

func setupTestData(t *testing.T) (*memory.RunStore, *memory.TradeStore) {
	t.Helper()
	ctx := context.Background()

	runStore := memory.NewRunStore()
	tradeStore := memory.NewTradeStore()

	trades := []*domain.SimulatedTrade{
		{TradeID: "t1", Ticker: "AAPL", Day: day(6), StrategyTag: "gap_vwap",
			Result: domain.ResultFullTarget, GapPct: 2.5,
			Entry: 100, Exit: 100.5, PnLPerShare: 0.375, Win: true, BarsHeld: 8, FirstTargetHit: true},
		{TradeID: "t2", Ticker: "MSFT", Day: day(6), StrategyTag: "gap_vwap",
			Result: domain.ResultStoppedOut, GapPct: 3.1,
			Entry: 400, Exit: 399.75, PnLPerShare: -0.25, Win: false, BarsHeld: 4},
		{TradeID: "t3", Ticker: "AAPL", Day: day(7), StrategyTag: "gap_vwap",
			Result: domain.ResultEODExit, GapPct: 2.2,
			Entry: 101, Exit: 101.1, PnLPerShare: 0.1, Win: true, BarsHeld: 20},
	}
	if err := tradeStore.InsertBulk(ctx, trades); err != nil {
		t.Fatalf("insert trades: %v", err)
	}

	run := &domain.BacktestRun{
		RunID:       "run1",
		StrategyTag: "gap_vwap",
		StartedAt:   time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC),
		FinishedAt:  time.Date(2025, 2, 1, 9, 5, 0, 0, time.UTC),
		Tickers:     []string{"AAPL", "MSFT"},
		Diagnostics: domain.Diagnostics{
			DaysSimulated: 40,
			RegimeBlocked: 3,
			GapsObserved:  12,
			SkipCounts: map[domain.ResultCode]int{
				domain.ResultNoEntry: 30,
				domain.ResultNoTrend: 7,
			},
		},
		Metrics: &domain.BacktestMetrics{
			TotalTrades: 3, Winners: 2, Losers: 1,
			WinRate: 66.67, TotalPnL: 0.225,
			ProfitFactor: 1.9, Sharpe: 0.8, PValue: 0.3,
		},
		Verdict:      domain.VerdictFail,
		ChecksPassed: 2,
	}
	if err := runStore.Insert(ctx, run); err != nil {
		t.Fatalf("insert run: %v", err)
	}

	return runStore, tradeStore
}

func TestGenerateReport(t *testing.T) {
	runStore, tradeStore := setupTestData(t)

	fixed := time.Date(2025, 2, 2, 12, 0, 0, 0, time.UTC)
	gen := NewGenerator(runStore, tradeStore).
		WithClock(func() time.Time { return fixed })

	report, err := gen.Generate(context.Background(), "run1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if !report.GeneratedAt.Equal(fixed) {
		t.Errorf("generated at = %v, want %v", report.GeneratedAt, fixed)
	}
	if report.RunID != "run1" || report.StrategyTag != "gap_vwap" {
		t.Errorf("run identity = %s/%s", report.RunID, report.StrategyTag)
	}

	if report.TradeSummary.TotalTrades != 3 {
		t.Errorf("total trades = %d, want 3", report.TradeSummary.TotalTrades)
	}
	if !report.TradeSummary.DateRangeStart.Equal(day(6)) ||
		!report.TradeSummary.DateRangeEnd.Equal(day(7)) {
		t.Errorf("date range = %v..%v", report.TradeSummary.DateRangeStart, report.TradeSummary.DateRangeEnd)
	}

	// Trade rows ordered by (day, ticker).
	wantOrder := []string{"t1", "t2", "t3"}
	for i, id := range wantOrder {
		if report.Trades[i].TradeID != id {
			t.Errorf("trade %d = %s, want %s", i, report.Trades[i].TradeID, id)
		}
	}

	// Skip counts sorted by code.
	skips := report.Diagnostics.SkipCounts
	if len(skips) != 2 || skips[0].Code != domain.ResultNoEntry || skips[1].Code != domain.ResultNoTrend {
		t.Errorf("skip counts = %+v", skips)
	}

	if report.Decision == nil {
		t.Fatal("expected decision checklist with metrics present")
	}
	if len(report.Decision.Criteria) != 5 {
		t.Errorf("criteria = %d, want 5", len(report.Decision.Criteria))
	}
}

func TestGenerateReportMissingRun(t *testing.T) {
	runStore, tradeStore := setupTestData(t)
	gen := NewGenerator(runStore, tradeStore)

	_, err := gen.Generate(context.Background(), "nope")
	if err == nil {
		t.Fatal("expected error for unknown run")
	}
	if !strings.Contains(err.Error(), storage.ErrNotFound.Error()) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBuildReportNoTrades(t *testing.T) {
	run := &domain.BacktestRun{
		RunID:       "empty",
		StrategyTag: "orb",
		Tickers:     []string{"AAPL"},
		Verdict:     domain.VerdictFail,
	}

	report := BuildReport(run, time.Now().UTC())

	if report.Metrics != nil || report.Decision != nil {
		t.Error("expected nil metrics and decision without trades")
	}
	if report.TradeSummary.TotalTrades != 0 {
		t.Errorf("total trades = %d, want 0", report.TradeSummary.TotalTrades)
	}
	if report.Verdict != domain.VerdictFail {
		t.Errorf("verdict = %q, want FAIL", report.Verdict)
	}
}

func TestRenderMarkdown(t *testing.T) {
	runStore, tradeStore := setupTestData(t)
	gen := NewGenerator(runStore, tradeStore)

	report, err := gen.Generate(context.Background(), "run1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	md := RenderMarkdown(report)

	for _, want := range []string{
		"# Backtest Report",
		"## Run Summary",
		"## Diagnostics",
		"## Trade Outcomes",
		"## Performance Metrics",
		"## Validation",
		"| Regime Blocked | 3 |",
		"| Skipped: no_entry | 30 |",
		"gap_vwap",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRenderMarkdownNoMetrics(t *testing.T) {
	report := BuildReport(&domain.BacktestRun{
		RunID:       "empty",
		StrategyTag: "orb",
		Verdict:     domain.VerdictFail,
	}, time.Now().UTC())

	md := RenderMarkdown(report)
	if !strings.Contains(md, "No tradable trades") {
		t.Error("markdown missing empty-metrics notice")
	}
}

func TestRenderCSV(t *testing.T) {
	runStore, tradeStore := setupTestData(t)
	gen := NewGenerator(runStore, tradeStore)

	report, err := gen.Generate(context.Background(), "run1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	csv := RenderCSV(report.Trades)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 4 {
		t.Fatalf("csv lines = %d, want 4", len(lines))
	}
	if !strings.HasPrefix(lines[0], "trade_id,ticker,day,result") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "t1,AAPL,2025-01-06,full_target") {
		t.Errorf("unexpected first row %q", lines[1])
	}
}
