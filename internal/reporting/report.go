package reporting

import (
	"time"

	"gap-trade-lab/internal/decision"
	"gap-trade-lab/internal/domain"
)

// Report is the renderable summary of one backtest run: run identity,
// diagnostics, derived metrics, the validation checklist and the full
// trade log.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	RunID       string
	StrategyTag string
	StartedAt   time.Time
	FinishedAt  time.Time
	Tickers     []string

	TradeSummary TradeSummary
	Diagnostics  DiagnosticsSection

	// Metrics is nil when the run produced no tradable trades.
	Metrics *domain.BacktestMetrics

	// Decision carries the per-criterion checklist; Verdict and
	// ChecksPassed mirror the stored run even when Metrics is nil.
	Decision     *decision.Result
	Verdict      domain.Verdict
	ChecksPassed int

	// Trades is ordered by (day, ticker).
	Trades []TradeRow
}

// TradeSummary describes the trade log at a glance.
type TradeSummary struct {
	TotalTrades    int
	ResultCounts   []ResultCountRow // sorted by result code
	DateRangeStart time.Time
	DateRangeEnd   time.Time
}

// ResultCountRow is one (result or skip code, count) pair.
type ResultCountRow struct {
	Code  domain.ResultCode
	Count int
}

// DiagnosticsSection mirrors the run's skip and error counters.
type DiagnosticsSection struct {
	DaysSimulated int
	RegimeBlocked int
	GapsObserved  int
	UnitErrors    int
	SkipCounts    []ResultCountRow // sorted by skip code
}

// TradeRow is one trade log line, flattened for rendering.
type TradeRow struct {
	TradeID        string
	Ticker         string
	Day            time.Time
	Result         domain.ResultCode
	GapPct         float64
	Entry          float64
	Exit           float64
	PnLPerShare    float64
	Win            bool
	BarsHeld       int
	FirstTargetHit bool
}
