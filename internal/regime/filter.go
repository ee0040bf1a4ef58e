// Package regime gates trading days on broad-market conditions: the
// benchmark must sit above its long moving average and the volatility
// index below a threshold. All lookups use the prior trading day, never
// the day being gated.
package regime

import (
	"sort"
	"time"

	"gap-trade-lab/internal/domain"
	"gap-trade-lab/internal/indicator"
)

// Defaults.
const (
	DefaultSMAPeriod    = 200
	DefaultVolThreshold = 25.0
)

// Options configures a Filter.
type Options struct {
	SMAPeriod    int     // benchmark long SMA window, default 200
	VolThreshold float64 // volatility-index cutoff, default 25
	// FailClosed makes a check with missing data refuse the day instead
	// of passing it.
	FailClosed bool
}

// Filter answers per-day eligibility questions against two daily
// series: a benchmark index and a volatility index. Either series may
// be empty; missing values are governed by the fail-open/fail-closed
// setting.
type Filter struct {
	opts Options

	benchDays  []time.Time
	benchClose []float64
	benchSMA   []float64

	volDays  []time.Time
	volClose []float64
}

// NewFilter builds a filter over the given daily series. Both series
// must be in chronological order.
func NewFilter(benchmark, volIndex []domain.DailyClose, opts Options) *Filter {
	if opts.SMAPeriod <= 0 {
		opts.SMAPeriod = DefaultSMAPeriod
	}
	if opts.VolThreshold <= 0 {
		opts.VolThreshold = DefaultVolThreshold
	}

	f := &Filter{opts: opts}

	for _, dc := range benchmark {
		f.benchDays = append(f.benchDays, dc.Day)
		f.benchClose = append(f.benchClose, dc.Close)
	}
	f.benchSMA = indicator.SMA(f.benchClose, opts.SMAPeriod)

	for _, dc := range volIndex {
		f.volDays = append(f.volDays, dc.Day)
		f.volClose = append(f.volClose, dc.Close)
	}

	return f
}

// priorIndex returns the index of the latest day strictly before target,
// or -1 when none exists.
func priorIndex(days []time.Time, target time.Time) int {
	i := sort.Search(len(days), func(i int) bool {
		return !days[i].Before(target)
	})
	return i - 1
}

// ContextFor resolves the prior-day benchmark and volatility values for
// the given trading day. Absent values stay nil.
func (f *Filter) ContextFor(day time.Time) domain.RegimeContext {
	ctx := domain.RegimeContext{Day: day}

	if i := priorIndex(f.benchDays, day); i >= 0 {
		c := f.benchClose[i]
		ctx.BenchmarkClose = &c
		if s := f.benchSMA[i]; s == s { // defined (not NaN)
			sma := s
			ctx.BenchmarkSMA = &sma
		}
	}

	if i := priorIndex(f.volDays, day); i >= 0 {
		v := f.volClose[i]
		ctx.VolIndexClose = &v
	}

	return ctx
}

// Eligible applies both regime checks to a resolved context.
func (f *Filter) Eligible(ctx domain.RegimeContext) bool {
	// Benchmark above its long SMA.
	if ctx.BenchmarkClose != nil && ctx.BenchmarkSMA != nil {
		if *ctx.BenchmarkClose < *ctx.BenchmarkSMA {
			return false
		}
	} else if f.opts.FailClosed {
		return false
	}

	// Volatility index below the cutoff.
	if ctx.VolIndexClose != nil {
		if *ctx.VolIndexClose > f.opts.VolThreshold {
			return false
		}
	} else if f.opts.FailClosed {
		return false
	}

	return true
}

// Allows is the one-shot form: resolve the day's context and test it.
func (f *Filter) Allows(day time.Time) bool {
	return f.Eligible(f.ContextFor(day))
}
