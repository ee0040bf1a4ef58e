package regime

import (
	"testing"
	"time"

	"gap-trade-lab/internal/domain"
)

func day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

func series(symbol string, start int, closes ...float64) []domain.DailyClose {
	var out []domain.DailyClose
	for i, c := range closes {
		out = append(out, domain.DailyClose{Symbol: symbol, Day: day(start + i), Close: c})
	}
	return out
}

func TestFilterBenchmarkBelowSMA(t *testing.T) {
	// 3-day SMA; day 4's prior close (day 3) sits below the average of
	// the falling series.
	bench := series("SPY", 1, 110, 100, 90)
	f := NewFilter(bench, nil, Options{SMAPeriod: 3})

	if f.Allows(day(4)) {
		t.Error("benchmark below SMA should block the day")
	}
}

func TestFilterBenchmarkAboveSMA(t *testing.T) {
	bench := series("SPY", 1, 90, 100, 110)
	f := NewFilter(bench, nil, Options{SMAPeriod: 3})

	if !f.Allows(day(4)) {
		t.Error("benchmark above SMA should pass")
	}
}

func TestFilterVolSpike(t *testing.T) {
	bench := series("SPY", 1, 90, 100, 110)
	vol := series("VIX", 1, 15, 18, 32)
	f := NewFilter(bench, vol, Options{SMAPeriod: 3})

	if f.Allows(day(4)) {
		t.Error("volatility above threshold should block the day")
	}
	// Prior day for day 3 is day 2 (vol 18): passes.
	if !f.Allows(day(4).AddDate(0, 0, -1)) {
		t.Error("volatility below threshold should pass")
	}
}

func TestFilterFailOpen(t *testing.T) {
	f := NewFilter(nil, nil, Options{})

	if !f.Allows(day(4)) {
		t.Error("missing data should pass by default")
	}
}

func TestFilterFailClosed(t *testing.T) {
	f := NewFilter(nil, nil, Options{FailClosed: true})

	if f.Allows(day(4)) {
		t.Error("missing data should block when fail-closed")
	}
}

func TestFilterSMAUndefinedFailOpen(t *testing.T) {
	// Only 2 closes against a 200-day SMA: SMA undefined, benchmark
	// check passes, volatility still enforced.
	bench := series("SPY", 1, 100, 99)
	vol := series("VIX", 1, 40, 40)
	f := NewFilter(bench, vol, Options{})

	if f.Allows(day(3)) {
		t.Error("volatility check should still block")
	}

	f2 := NewFilter(bench, series("VIX", 1, 12, 12), Options{})
	if !f2.Allows(day(3)) {
		t.Error("undefined SMA should fail open")
	}
}

func TestFilterUsesPriorDay(t *testing.T) {
	// Vol spikes on day 3 itself; gating day 3 must read day 2.
	bench := series("SPY", 1, 90, 100, 110)
	vol := series("VIX", 1, 15, 18, 40)
	f := NewFilter(bench, vol, Options{SMAPeriod: 3})

	if !f.Allows(day(3)) {
		t.Error("same-day spike must not affect the day's gate")
	}
}
