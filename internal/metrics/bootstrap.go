package metrics

import (
	"math/rand"
	"sort"

	"gap-trade-lab/internal/domain"
)

// bootstrap fills the win-rate and Sharpe confidence intervals by
// resampling the P&L series with replacement. The RNG is seeded from
// Options so identical runs produce identical intervals.
func bootstrap(pnl []float64, opts Options, m *domain.BacktestMetrics) {
	rng := rand.New(rand.NewSource(opts.BootstrapSeed))

	n := len(pnl)
	winRates := make([]float64, 0, opts.BootstrapIterations)
	sharpes := make([]float64, 0, opts.BootstrapIterations)

	sample := make([]float64, n)
	for it := 0; it < opts.BootstrapIterations; it++ {
		wins := 0
		for i := range sample {
			v := pnl[rng.Intn(n)]
			sample[i] = v
			if v > 0 {
				wins++
			}
		}

		winRates = append(winRates, float64(wins)/float64(n)*100)
		sharpes = append(sharpes, sharpe(sample))
	}

	sort.Float64s(winRates)
	sort.Float64s(sharpes)

	m.WinRateCI = domain.ConfidenceInterval{
		Lower: percentile(winRates, 2.5),
		Upper: percentile(winRates, 97.5),
	}
	m.SharpeCI = domain.ConfidenceInterval{
		Lower: percentile(sharpes, 2.5),
		Upper: percentile(sharpes, 97.5),
	}
}
