// Package backtest walks a ticker universe day by day: load bars, gate
// each day on market regime and local trend, generate a setup and replay
// it. One bad (ticker, day) never kills the run; it is logged, counted
// and skipped.
package backtest

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"gap-trade-lab/internal/decision"
	"gap-trade-lab/internal/domain"
	"gap-trade-lab/internal/idhash"
	"gap-trade-lab/internal/indicator"
	"gap-trade-lab/internal/metrics"
	"gap-trade-lab/internal/observability"
	"gap-trade-lab/internal/regime"
	"gap-trade-lab/internal/signal"
	"gap-trade-lab/internal/sim"
	"gap-trade-lab/internal/storage"
)

// Defaults.
const (
	DefaultMinTradingDays = 10
	DefaultTrendSMAPeriod = 20

	// Gaps at least this large count in the gap diagnostics whether or
	// not they produced a trade.
	diagGapPct = 1.0
)

// Options configures a Runner.
type Options struct {
	MinTradingDays int // tickers with fewer days are skipped, default 10
	TrendSMAPeriod int // local trend SMA window, default 20
	// TrendFailClosed makes an undefined trend SMA refuse the day
	// instead of passing it.
	TrendFailClosed bool
	Verbose         bool

	Metrics metrics.Options // bootstrap seed and iterations
}

func (o Options) withDefaults() Options {
	if o.MinTradingDays <= 0 {
		o.MinTradingDays = DefaultMinTradingDays
	}
	if o.TrendSMAPeriod <= 0 {
		o.TrendSMAPeriod = DefaultTrendSMAPeriod
	}
	return o
}

// Runner executes one strategy over a ticker universe and assembles the
// immutable BacktestRun.
type Runner struct {
	bars      storage.BarStore
	generator signal.Generator
	filter    *regime.Filter
	evaluator *decision.Evaluator
	logger    *log.Logger
	obs       *observability.Metrics
	opts      Options
	now       func() time.Time
}

// NewRunner creates a Runner. The regime filter may be nil, in which
// case every day is eligible.
func NewRunner(bars storage.BarStore, gen signal.Generator, filter *regime.Filter, logger *log.Logger, opts Options) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		bars:      bars,
		generator: gen,
		filter:    filter,
		evaluator: decision.NewEvaluator(),
		logger:    logger,
		opts:      opts.withDefaults(),
		now:       time.Now,
	}
}

// WithClock overrides the time source. Tests use this for deterministic
// run IDs.
func (r *Runner) WithClock(now func() time.Time) *Runner {
	r.now = now
	return r
}

// WithObservability attaches Prometheus metrics to the run.
func (r *Runner) WithObservability(obs *observability.Metrics) *Runner {
	r.obs = obs
	return r
}

// Run simulates every ticker in order and returns the assembled run.
// The only error cases are context cancellation and storage failure on
// the universe itself; per-(ticker, day) failures are absorbed into
// diagnostics.
func (r *Runner) Run(ctx context.Context, tickers []string) (*domain.BacktestRun, error) {
	startedAt := r.now().UTC()

	run := &domain.BacktestRun{
		StrategyTag: r.generator.Tag(),
		StartedAt:   startedAt,
		Tickers:     tickers,
		Diagnostics: domain.Diagnostics{
			SkipCounts: make(map[domain.ResultCode]int),
		},
	}

	for _, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("backtest cancelled: %w", err)
		}
		r.runTicker(ctx, ticker, run)
	}

	m, err := metrics.Compute(run.Trades, r.opts.Metrics)
	switch err {
	case nil:
		run.Metrics = m
		result := r.evaluator.Evaluate(m)
		run.Verdict = result.Verdict
		run.ChecksPassed = result.ChecksPassed
	case metrics.ErrNoTrades:
		r.logger.Printf("no tradable trades for %s, skipping metrics", run.StrategyTag)
		run.Verdict = domain.VerdictFail
	default:
		return nil, fmt.Errorf("compute metrics: %w", err)
	}

	run.FinishedAt = r.now().UTC()
	run.RunID = idhash.ComputeRunID(run.StrategyTag, startedAt.Unix(), tickers)

	if r.obs != nil {
		r.obs.RunDuration.Observe(run.FinishedAt.Sub(startedAt).Seconds())
	}

	return run, nil
}

// runTicker replays all of one ticker's days into the run.
func (r *Runner) runTicker(ctx context.Context, ticker string, run *domain.BacktestRun) {
	bars, err := r.bars.GetByTicker(ctx, ticker)
	if err != nil {
		r.logger.Printf("load bars for %s: %v, skipping ticker", ticker, err)
		run.Diagnostics.UnitErrors++
		if r.obs != nil {
			r.obs.UnitErrors.Inc()
		}
		return
	}
	if len(bars) == 0 {
		r.logger.Printf("no bars for %s, skipping ticker", ticker)
		return
	}

	days := domain.SplitDays(bars)
	if len(days) < r.opts.MinTradingDays {
		r.logger.Printf("%s has %d trading days, need %d, skipping ticker",
			ticker, len(days), r.opts.MinTradingDays)
		return
	}

	closes := make([]float64, len(days))
	for i, d := range days {
		closes[i] = d.Close()
	}
	trendSMA := indicator.SMA(closes, r.opts.TrendSMAPeriod)

	if r.obs != nil {
		r.obs.TickersProcessed.Inc()
	}

	// The first day has no prior close to gap against.
	for i := 1; i < len(days); i++ {
		r.runDay(days[i], closes[i-1], trendSMA[i-1], run)
	}

	if r.opts.Verbose {
		r.logger.Printf("%s: %d days replayed", ticker, len(days)-1)
	}
}

// runDay gates, generates and simulates one (ticker, day). Panics from
// the generator or simulator are recovered and counted so a single
// malformed day cannot abort the universe.
func (r *Runner) runDay(day *domain.DaySeries, prevClose, prevSMA float64, run *domain.BacktestRun) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Printf("simulate %s %s: panic: %v, skipping day",
				day.Ticker, day.Day.Format("2006-01-02"), rec)
			run.Diagnostics.UnitErrors++
			if r.obs != nil {
				r.obs.UnitErrors.Inc()
			}
		}
	}()

	if r.filter != nil && !r.filter.Allows(day.Day) {
		run.Diagnostics.RegimeBlocked++
		if r.obs != nil {
			r.obs.RegimeBlocked.Inc()
		}
		return
	}

	trendOK := !r.opts.TrendFailClosed
	if prevSMA == prevSMA { // SMA defined (not NaN)
		trendOK = prevClose > prevSMA
	}

	in := &signal.Input{Day: day, PrevClose: prevClose, TrendOK: trendOK}

	run.Diagnostics.DaysSimulated++
	if r.obs != nil {
		r.obs.DaysSimulated.Inc()
	}
	if math.Abs(in.GapPct()) >= diagGapPct {
		run.Diagnostics.GapsObserved++
	}

	setup, skip := r.generator.Generate(in)
	if setup == nil {
		if skip != "" {
			run.Diagnostics.SkipCounts[skip]++
			if r.obs != nil {
				r.obs.DaysSkipped.WithLabelValues(skip.String()).Inc()
			}
		}
		return
	}

	trade := sim.Simulate(day, setup)
	if !trade.Result.Tradable() {
		run.Diagnostics.SkipCounts[trade.Result]++
		if r.obs != nil {
			r.obs.DaysSkipped.WithLabelValues(trade.Result.String()).Inc()
		}
		return
	}

	trade.TradeID = idhash.ComputeTradeID(
		trade.Ticker, trade.Day.Unix(), trade.StrategyTag, trade.Result.String(),
	)
	run.Trades = append(run.Trades, trade)
	if r.obs != nil {
		r.obs.TradesSimulated.WithLabelValues(trade.Result.String()).Inc()
	}
}
