// Package metrics derives the statistical profile of a trade log:
// descriptive stats, risk-adjusted ratios, a one-sample t-test against
// zero and bootstrap confidence intervals. Everything operates on
// per-share P&L; undefined statistics collapse to zero rather than NaN.
package metrics

import (
	"errors"
	"math"
	"sort"

	"gap-trade-lab/internal/domain"
)

// ErrNoTrades is returned when a metrics computation receives zero
// tradable trades.
var ErrNoTrades = errors.New("no tradable trades")

// TradingDaysPerYear annualizes per-trade ratios.
const TradingDaysPerYear = 252

// Bootstrap defaults.
const (
	DefaultBootstrapIterations = 1000
	DefaultBootstrapSeed       = 42
)

// sortinoFloor substitutes for the downside deviation of an all-winner
// series so the ratio stays finite.
const sortinoFloor = 0.01

// Options tunes the non-deterministic parts of the computation.
type Options struct {
	BootstrapIterations int   // default 1000
	BootstrapSeed       int64 // default 42; fixed so runs reproduce
}

func (o Options) withDefaults() Options {
	if o.BootstrapIterations <= 0 {
		o.BootstrapIterations = DefaultBootstrapIterations
	}
	if o.BootstrapSeed == 0 {
		o.BootstrapSeed = DefaultBootstrapSeed
	}
	return o
}

// Compute derives the full metrics set from a trade log. Non-tradable
// records (skips) are ignored; an empty tradable set yields ErrNoTrades.
func Compute(trades []*domain.SimulatedTrade, opts Options) (*domain.BacktestMetrics, error) {
	opts = opts.withDefaults()

	tradable := make([]*domain.SimulatedTrade, 0, len(trades))
	for _, tr := range trades {
		if tr.Result.Tradable() {
			tradable = append(tradable, tr)
		}
	}
	if len(tradable) == 0 {
		return nil, ErrNoTrades
	}

	pnl := make([]float64, len(tradable))
	for i, tr := range tradable {
		pnl[i] = tr.PnLPerShare
	}

	m := &domain.BacktestMetrics{TotalTrades: len(tradable)}

	var sumWins, sumLosses float64
	for _, r := range pnl {
		m.TotalPnL += r
		if r > 0 {
			m.Winners++
			sumWins += r
		} else if r < 0 {
			m.Losers++
			sumLosses += r
		}
	}

	m.WinRate = float64(m.Winners) / float64(m.TotalTrades) * 100
	if m.Winners > 0 {
		m.AvgWin = sumWins / float64(m.Winners)
	}
	if m.Losers > 0 {
		m.AvgLoss = sumLosses / float64(m.Losers)
		m.ProfitFactor = math.Abs(sumWins / sumLosses)
	}

	m.Sharpe = sharpe(pnl)
	m.Sortino = sortino(pnl)
	m.MaxDrawdown = maxDrawdown(pnl)
	if m.MaxDrawdown != 0 {
		m.Calmar = mean(pnl) * TradingDaysPerYear / math.Abs(m.MaxDrawdown)
	}

	m.TStat, m.PValue = tTest(pnl)
	m.Significant = m.PValue < 0.05

	monthly(tradable, m)
	bootstrap(pnl, opts, m)

	return m, nil
}

func mean(r []float64) float64 {
	var sum float64
	for _, v := range r {
		sum += v
	}
	return sum / float64(len(r))
}

// sampleStd is the n-1 standard deviation; 0 when fewer than 2 samples.
func sampleStd(r []float64) float64 {
	if len(r) < 2 {
		return 0
	}
	mu := mean(r)
	var ss float64
	for _, v := range r {
		d := v - mu
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(r)-1))
}

func sharpe(r []float64) float64 {
	std := sampleStd(r)
	if std == 0 {
		return 0
	}
	return mean(r) / std * math.Sqrt(TradingDaysPerYear)
}

func sortino(r []float64) float64 {
	var downside []float64
	for _, v := range r {
		if v < 0 {
			downside = append(downside, v)
		}
	}

	dstd := sortinoFloor
	if len(downside) > 0 {
		dstd = sampleStd(downside)
	}
	if dstd == 0 {
		return 0
	}
	return mean(r) / dstd * math.Sqrt(TradingDaysPerYear)
}

// maxDrawdown is the deepest equity dip of the cumulative P&L curve,
// always <= 0.
func maxDrawdown(r []float64) float64 {
	var cum, peak, mdd float64
	for _, v := range r {
		cum += v
		if cum > peak {
			peak = cum
		}
		if dd := cum - peak; dd < mdd {
			mdd = dd
		}
	}
	return mdd
}

// monthly groups P&L by calendar month for the consistency stats.
func monthly(trades []*domain.SimulatedTrade, m *domain.BacktestMetrics) {
	byMonth := make(map[string]float64)
	for _, tr := range trades {
		byMonth[tr.Day.Format("2006-01")] += tr.PnLPerShare
	}

	months := make([]string, 0, len(byMonth))
	for k := range byMonth {
		months = append(months, k)
	}
	sort.Strings(months)

	m.TotalMonths = len(months)
	m.BestMonth = math.Inf(-1)
	m.WorstMonth = math.Inf(1)
	for _, month := range months {
		p := byMonth[month]
		if p > 0 {
			m.ProfitableMonths++
		}
		if p > m.BestMonth {
			m.BestMonth = p
		}
		if p < m.WorstMonth {
			m.WorstMonth = p
		}
	}
}

// percentile returns the p-th percentile (0..100) of sorted values
// using linear interpolation.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
