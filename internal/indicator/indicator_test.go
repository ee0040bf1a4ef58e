package indicator

import (
	"math"
	"testing"
	"time"

	"gap-trade-lab/internal/domain"
)

func mkBar(h, l, c, v float64) domain.Bar {
	return domain.Bar{Timestamp: time.Now(), Open: c, High: h, Low: l, Close: c, Volume: v}
}

func TestVWAP(t *testing.T) {
	bars := []domain.Bar{
		mkBar(12, 8, 10, 100),  // tp = 10
		mkBar(22, 18, 20, 100), // tp = 20
	}

	v := VWAP(bars)
	if v[0] != 10 {
		t.Errorf("vwap[0] = %v, want 10", v[0])
	}
	if v[1] != 15 {
		t.Errorf("vwap[1] = %v, want 15", v[1])
	}
}

func TestVWAPZeroVolume(t *testing.T) {
	bars := []domain.Bar{mkBar(12, 8, 10, 0)}

	v := VWAP(bars)
	if v[0] != 10 {
		t.Errorf("zero-volume vwap = %v, want typical price 10", v[0])
	}
}

func TestSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	sma := SMA(values, 3)
	if !math.IsNaN(sma[0]) || !math.IsNaN(sma[1]) {
		t.Error("positions before the window fills should be NaN")
	}
	if sma[2] != 2 || sma[3] != 3 || sma[4] != 4 {
		t.Errorf("sma = %v", sma[2:])
	}
}

func TestRSI(t *testing.T) {
	// Steady uptrend: all gains, RSI pegged at 100.
	up := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	if rsi, ok := RSI(up, 14); !ok || rsi != 100 {
		t.Errorf("uptrend rsi = %v, ok=%v, want 100", rsi, ok)
	}

	// Alternating equal gains and losses: RSI 50.
	flat := make([]float64, 15)
	for i := range flat {
		if i%2 == 0 {
			flat[i] = 10
		} else {
			flat[i] = 11
		}
	}
	rsi, ok := RSI(flat, 14)
	if !ok {
		t.Fatal("expected rsi to be defined")
	}
	if math.Abs(rsi-50) > 1e-9 {
		t.Errorf("alternating rsi = %v, want 50", rsi)
	}
}

func TestRSIShortSeries(t *testing.T) {
	if _, ok := RSI([]float64{1, 2, 3}, 14); ok {
		t.Error("short series should be undefined")
	}
}

func TestATR(t *testing.T) {
	bars := []domain.Bar{
		mkBar(11, 10, 10.5, 1), // range 1
		mkBar(13, 10, 11, 1),   // range 3
	}

	atr, ok := ATR(bars, 2)
	if !ok {
		t.Fatal("expected atr to be defined")
	}
	if atr != 2 {
		t.Errorf("atr = %v, want 2", atr)
	}

	if _, ok := ATR(bars, 3); ok {
		t.Error("period longer than series should be undefined")
	}
}
