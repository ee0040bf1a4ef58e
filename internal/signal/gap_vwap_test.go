package signal

import (
	"math"
	"testing"
	"time"

	"gap-trade-lab/internal/domain"
)

func daySeries(closes ...float64) *domain.DaySeries {
	day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	d := &domain.DaySeries{Ticker: "TEST", Day: day}
	for i, c := range closes {
		d.Bars = append(d.Bars, domain.Bar{
			Ticker:    "TEST",
			Timestamp: day.Add(time.Duration(i) * 5 * time.Minute),
			Open:      c, High: c, Low: c, Close: c,
			Volume: 1000,
		})
	}
	return d
}

func flatDay(n int, price float64) *domain.DaySeries {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = price
	}
	return daySeries(closes...)
}

func TestGapVWAPShortDay(t *testing.T) {
	g := NewGapVWAP("gap_vwap")

	setup, skip := g.Generate(&Input{Day: flatDay(10, 105), PrevClose: 100, TrendOK: true})
	if setup != nil || skip != "" {
		t.Errorf("short day should be dropped, got setup=%v skip=%q", setup, skip)
	}
}

func TestGapVWAPNoTrend(t *testing.T) {
	g := NewGapVWAP("gap_vwap")

	_, skip := g.Generate(&Input{Day: flatDay(24, 105), PrevClose: 100, TrendOK: false})
	if skip != domain.ResultNoTrend {
		t.Errorf("skip = %q, want no_trend", skip)
	}
}

func TestGapVWAPBadGapSize(t *testing.T) {
	g := NewGapVWAP("gap_vwap")

	// 1% gap: below the band.
	_, skip := g.Generate(&Input{Day: flatDay(24, 101), PrevClose: 100, TrendOK: true})
	if skip != domain.ResultBadGapSize {
		t.Errorf("small gap skip = %q, want bad_gap_size", skip)
	}

	// 15% gap: above the band.
	_, skip = g.Generate(&Input{Day: flatDay(24, 115), PrevClose: 100, TrendOK: true})
	if skip != domain.ResultBadGapSize {
		t.Errorf("large gap skip = %q, want bad_gap_size", skip)
	}

	// Gap-downs count by magnitude.
	setup, skip := g.Generate(&Input{Day: flatDay(24, 95), PrevClose: 100, TrendOK: true})
	if setup == nil {
		t.Errorf("5%% gap-down should qualify, skip = %q", skip)
	}
}

func TestGapVWAPEntryAtReclaim(t *testing.T) {
	g := NewGapVWAP("gap_vwap")

	// Flat prices sit exactly on VWAP, so the first bar triggers.
	setup, skip := g.Generate(&Input{Day: flatDay(24, 105), PrevClose: 100, TrendOK: true})
	if setup == nil {
		t.Fatalf("expected setup, skip = %q", skip)
	}

	if setup.Kind != domain.EntryAtBar || setup.EntryBar != 0 {
		t.Errorf("entry = %s bar %d, want AT_BAR bar 0", setup.Kind, setup.EntryBar)
	}
	if setup.Entry != 105 {
		t.Errorf("entry price = %v, want 105", setup.Entry)
	}
	if setup.Stop != 104.75 || setup.Target1 != 105.25 || setup.Target2 != 105.50 {
		t.Errorf("levels = %v/%v/%v", setup.Stop, setup.Target1, setup.Target2)
	}
	if !setup.Scaled || setup.MaxHoldBars != 24 {
		t.Errorf("scaled=%v maxHold=%d", setup.Scaled, setup.MaxHoldBars)
	}
	if math.Abs(setup.GapPct-5.0) > 1e-9 {
		t.Errorf("gap = %v, want 5", setup.GapPct)
	}
}

func TestGapVWAPNoEntry(t *testing.T) {
	g := NewGapVWAP("gap_vwap")

	// Wide bars pull the typical price far from every close, so no bar
	// ever trades near VWAP.
	day := flatDay(24, 105)
	for i := range day.Bars {
		day.Bars[i].High = 200
		day.Bars[i].Low = 100
		day.Bars[i].Close = 100
		day.Bars[i].Open = 100
	}
	day.Bars[0].Open = 105 // keep the gap

	_, skip := g.Generate(&Input{Day: day, PrevClose: 100, TrendOK: true})
	if skip != domain.ResultNoEntry {
		t.Errorf("skip = %q, want no_entry", skip)
	}
}
