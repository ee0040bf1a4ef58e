package domain

import "time"

// RegimeContext carries the broad-market state used to gate one trading
// day. Values are the *prior* trading day's closes; a nil pointer means
// the series had no value for that day.
type RegimeContext struct {
	Day            time.Time // the day being gated (midnight UTC)
	BenchmarkClose *float64  // prior-day benchmark close
	BenchmarkSMA   *float64  // prior-day long SMA of the benchmark
	VolIndexClose  *float64  // prior-day volatility-index close
}
