package indicator

import "math"

// SMA returns the rolling simple moving average of values over period.
// Positions with fewer than period samples are NaN; callers treat NaN
// as "undefined" and apply their own fallback.
func SMA(values []float64, period int) []float64 {
	out := make([]float64, len(values))

	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		} else {
			out[i] = math.NaN()
		}
	}

	return out
}
