package domain

import (
	"testing"
	"time"
)

func bar(ticker string, ts time.Time, close float64) Bar {
	return Bar{Ticker: ticker, Timestamp: ts, Open: close, High: close, Low: close, Close: close, Volume: 100}
}

func TestSplitDays(t *testing.T) {
	d1 := time.Date(2025, 3, 3, 14, 30, 0, 0, time.UTC)
	d2 := time.Date(2025, 3, 4, 14, 30, 0, 0, time.UTC)

	bars := []Bar{
		bar("AAPL", d1, 10),
		bar("AAPL", d1.Add(5*time.Minute), 11),
		bar("AAPL", d2, 12),
	}

	days := SplitDays(bars)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[0].Len() != 2 || days[1].Len() != 1 {
		t.Fatalf("unexpected bar counts: %d, %d", days[0].Len(), days[1].Len())
	}
	if days[0].Close() != 11 {
		t.Errorf("day 1 close = %v, want 11", days[0].Close())
	}
	if !days[1].Day.Equal(time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("day 2 date = %v", days[1].Day)
	}
}

func TestDailyCloses(t *testing.T) {
	d1 := time.Date(2025, 3, 3, 14, 30, 0, 0, time.UTC)
	d2 := time.Date(2025, 3, 4, 14, 30, 0, 0, time.UTC)

	closes := DailyCloses([]Bar{
		bar("SPY", d1, 500),
		bar("SPY", d1.Add(5*time.Minute), 501),
		bar("SPY", d2, 499),
	})

	if len(closes) != 2 {
		t.Fatalf("expected 2 daily closes, got %d", len(closes))
	}
	if closes[0].Close != 501 || closes[1].Close != 499 {
		t.Errorf("closes = %v, %v", closes[0].Close, closes[1].Close)
	}
}

func TestResultCodeTradable(t *testing.T) {
	skips := []ResultCode{ResultNoTrend, ResultBadGapSize, ResultNoEntry}
	for _, c := range skips {
		if c.Tradable() {
			t.Errorf("%s should not be tradable", c)
		}
	}
	trades := []ResultCode{ResultStoppedOut, ResultTimeExit, ResultFullTarget, ResultEODExit}
	for _, c := range trades {
		if !c.Tradable() {
			t.Errorf("%s should be tradable", c)
		}
	}
}
