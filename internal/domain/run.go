package domain

import "time"

// Diagnostics counts the non-trade outcomes of a run. Skip codes are not
// part of the trade log but they matter when judging how often a
// strategy even finds a candidate.
type Diagnostics struct {
	DaysSimulated int                // (ticker, day) pairs that reached a generator
	RegimeBlocked int                // days refused by the market regime filter
	SkipCounts    map[ResultCode]int // no_trend / bad_gap_size / no_entry
	GapsObserved  int                // days with |gap| >= 1%, traded or not
	UnitErrors    int                // (ticker, day) pairs skipped after an error
}

// Verdict is the terminal judgement of a validation run.
type Verdict string

const (
	VerdictPass Verdict = "PASS"
	VerdictFail Verdict = "FAIL"
)

// BacktestRun is the complete, immutable outcome of one universe
// backtest: the trade log, skip diagnostics, derived metrics and the
// validation verdict. RunID is a deterministic hash of the run identity.
type BacktestRun struct {
	RunID       string
	StrategyTag string
	StartedAt   time.Time
	FinishedAt  time.Time

	Tickers     []string
	Trades      []*SimulatedTrade // tradable outcomes, deterministic order
	Diagnostics Diagnostics

	Metrics      *BacktestMetrics // nil when the run produced no trades
	Verdict      Verdict
	ChecksPassed int
}
