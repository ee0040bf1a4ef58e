package idhash

import "testing"

func TestComputeTradeIDDeterministic(t *testing.T) {
	a := ComputeTradeID("AAPL", 1700000000, "GAP_VWAP", "full_target")
	b := ComputeTradeID("AAPL", 1700000000, "GAP_VWAP", "full_target")

	if a != b {
		t.Fatalf("same inputs produced different IDs: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64-char hex ID, got %d chars", len(a))
	}
}

func TestComputeTradeIDDistinct(t *testing.T) {
	a := ComputeTradeID("AAPL", 1700000000, "GAP_VWAP", "full_target")
	b := ComputeTradeID("MSFT", 1700000000, "GAP_VWAP", "full_target")

	if a == b {
		t.Fatal("different tickers produced the same ID")
	}
}

func TestComputeRunIDUniverseOrderSensitive(t *testing.T) {
	a := ComputeRunID("ORB", 1700000000, []string{"AAPL", "MSFT"})
	b := ComputeRunID("ORB", 1700000000, []string{"MSFT", "AAPL"})

	if a == b {
		t.Fatal("universe order should change the run ID")
	}
}
