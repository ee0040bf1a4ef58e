// Package indicator holds the pure series math the signal generators
// build on: VWAP, rolling SMA, RSI and a range-based ATR. No indicator
// mutates its input.
package indicator

import "gap-trade-lab/internal/domain"

// VWAP returns the cumulative volume-weighted average price per bar,
// using the typical price (high+low+close)/3. Bars with zero cumulative
// volume get the typical price itself so the series stays defined.
func VWAP(bars []domain.Bar) []float64 {
	out := make([]float64, len(bars))

	var cumPV, cumVol float64
	for i, b := range bars {
		tp := (b.High + b.Low + b.Close) / 3
		cumPV += tp * b.Volume
		cumVol += b.Volume

		if cumVol > 0 {
			out[i] = cumPV / cumVol
		} else {
			out[i] = tp
		}
	}

	return out
}
