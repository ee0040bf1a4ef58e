package reporting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gap-trade-lab/internal/decision"
	"gap-trade-lab/internal/domain"
	"gap-trade-lab/internal/storage"
)

// Generator produces reports from stored runs.
type Generator struct {
	runStore   storage.RunStore
	tradeStore storage.TradeStore
	now        func() time.Time // injectable clock for deterministic output
}

// NewGenerator creates a report generator.
func NewGenerator(runStore storage.RunStore, tradeStore storage.TradeStore) *Generator {
	return &Generator{
		runStore:   runStore,
		tradeStore: tradeStore,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate loads a stored run and its trade log and builds the report.
func (g *Generator) Generate(ctx context.Context, runID string) (*Report, error) {
	run, err := g.runStore.GetByID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}

	trades, err := g.tradeStore.GetByStrategy(ctx, run.StrategyTag)
	if err != nil {
		return nil, fmt.Errorf("load trades for %s: %w", run.StrategyTag, err)
	}

	run.Trades = trades
	return BuildReport(run, g.now()), nil
}

// FromRun builds a report directly from an in-memory run, before or
// without persistence.
func (g *Generator) FromRun(run *domain.BacktestRun) *Report {
	return BuildReport(run, g.now())
}

// BuildReport assembles the report structure from a complete run.
func BuildReport(run *domain.BacktestRun, generatedAt time.Time) *Report {
	r := &Report{
		GeneratedAt:  generatedAt,
		RunID:        run.RunID,
		StrategyTag:  run.StrategyTag,
		StartedAt:    run.StartedAt,
		FinishedAt:   run.FinishedAt,
		Tickers:      run.Tickers,
		Metrics:      run.Metrics,
		Verdict:      run.Verdict,
		ChecksPassed: run.ChecksPassed,
	}

	if run.Metrics != nil {
		r.Decision = decision.NewEvaluator().Evaluate(run.Metrics)
	}

	r.Diagnostics = DiagnosticsSection{
		DaysSimulated: run.Diagnostics.DaysSimulated,
		RegimeBlocked: run.Diagnostics.RegimeBlocked,
		GapsObserved:  run.Diagnostics.GapsObserved,
		UnitErrors:    run.Diagnostics.UnitErrors,
		SkipCounts:    sortedCounts(run.Diagnostics.SkipCounts),
	}

	r.TradeSummary, r.Trades = summarizeTrades(run.Trades)
	return r
}

// summarizeTrades flattens and orders the trade log and derives the
// summary block.
func summarizeTrades(trades []*domain.SimulatedTrade) (TradeSummary, []TradeRow) {
	summary := TradeSummary{TotalTrades: len(trades)}
	if len(trades) == 0 {
		return summary, nil
	}

	byResult := make(map[domain.ResultCode]int)
	rows := make([]TradeRow, len(trades))
	summary.DateRangeStart = trades[0].Day
	summary.DateRangeEnd = trades[0].Day

	for i, t := range trades {
		byResult[t.Result]++
		if t.Day.Before(summary.DateRangeStart) {
			summary.DateRangeStart = t.Day
		}
		if t.Day.After(summary.DateRangeEnd) {
			summary.DateRangeEnd = t.Day
		}
		rows[i] = TradeRow{
			TradeID:        t.TradeID,
			Ticker:         t.Ticker,
			Day:            t.Day,
			Result:         t.Result,
			GapPct:         t.GapPct,
			Entry:          t.Entry,
			Exit:           t.Exit,
			PnLPerShare:    t.PnLPerShare,
			Win:            t.Win,
			BarsHeld:       t.BarsHeld,
			FirstTargetHit: t.FirstTargetHit,
		}
	}

	summary.ResultCounts = sortedCounts(byResult)

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Day.Equal(rows[j].Day) {
			return rows[i].Day.Before(rows[j].Day)
		}
		return rows[i].Ticker < rows[j].Ticker
	})

	return summary, rows
}

func sortedCounts(m map[domain.ResultCode]int) []ResultCountRow {
	rows := make([]ResultCountRow, 0, len(m))
	for code, n := range m {
		rows = append(rows, ResultCountRow{Code: code, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Code < rows[j].Code
	})
	return rows
}
