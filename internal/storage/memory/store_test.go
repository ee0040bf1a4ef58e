package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gap-trade-lab/internal/domain"
	"gap-trade-lab/internal/storage"
)

func day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestBarStoreInsertAndQuery(t *testing.T) {
	ctx := context.Background()
	s := NewBarStore()

	bars := []domain.Bar{
		{Ticker: "AAPL", Timestamp: day(3).Add(10 * time.Minute), Close: 101, Volume: 1},
		{Ticker: "AAPL", Timestamp: day(3).Add(5 * time.Minute), Close: 100, Volume: 1},
		{Ticker: "MSFT", Timestamp: day(3), Close: 400, Volume: 1},
	}
	require.NoError(t, s.InsertBulk(ctx, bars))

	got, err := s.GetByTicker(ctx, "AAPL")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 100.0, got[0].Close, "bars must come back sorted by timestamp")

	ranged, err := s.GetByTickerRange(ctx, "AAPL", day(3), day(3).Add(6*time.Minute))
	require.NoError(t, err)
	assert.Len(t, ranged, 1)

	tickers, err := s.Tickers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, tickers)
}

func TestBarStoreDuplicate(t *testing.T) {
	ctx := context.Background()
	s := NewBarStore()

	b := domain.Bar{Ticker: "AAPL", Timestamp: day(3), Close: 100}
	require.NoError(t, s.InsertBulk(ctx, []domain.Bar{b}))

	err := s.InsertBulk(ctx, []domain.Bar{b})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// Intra-batch duplicate also rejects the whole batch.
	b2 := domain.Bar{Ticker: "MSFT", Timestamp: day(3), Close: 400}
	err = s.InsertBulk(ctx, []domain.Bar{b2, b2})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	got, _ := s.GetByTicker(ctx, "MSFT")
	assert.Empty(t, got, "failed batch must not be partially applied")
}

func TestDailyCloseStore(t *testing.T) {
	ctx := context.Background()
	s := NewDailyCloseStore()

	closes := []domain.DailyClose{
		{Symbol: "SPY", Day: day(4), Close: 501},
		{Symbol: "SPY", Day: day(3), Close: 500},
		{Symbol: "VIX", Day: day(3), Close: 15},
	}
	require.NoError(t, s.InsertBulk(ctx, closes))

	got, err := s.GetBySymbol(ctx, "SPY")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 500.0, got[0].Close, "closes must come back sorted by day")

	err = s.InsertBulk(ctx, []domain.DailyClose{{Symbol: "SPY", Day: day(3), Close: 500}})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestTradeStore(t *testing.T) {
	ctx := context.Background()
	s := NewTradeStore()

	trades := []*domain.SimulatedTrade{
		{TradeID: "t2", Ticker: "MSFT", Day: day(4), StrategyTag: "orb", PnLPerShare: 1},
		{TradeID: "t1", Ticker: "AAPL", Day: day(3), StrategyTag: "orb", PnLPerShare: -1},
		{TradeID: "t3", Ticker: "AAPL", Day: day(4), StrategyTag: "gap_vwap"},
	}
	require.NoError(t, s.InsertBulk(ctx, trades))

	got, err := s.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", got.Ticker)

	_, err = s.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	byStrat, err := s.GetByStrategy(ctx, "orb")
	require.NoError(t, err)
	require.Len(t, byStrat, 2)
	assert.Equal(t, "t1", byStrat[0].TradeID, "strategy query must be day-ordered")

	assert.ErrorIs(t, s.Insert(ctx, trades[0]), storage.ErrDuplicateKey)
	assert.ErrorIs(t, s.Insert(ctx, &domain.SimulatedTrade{}), storage.ErrInvalidInput)
}

func TestTradeStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewTradeStore()

	tr := &domain.SimulatedTrade{TradeID: "t1", Ticker: "AAPL", Day: day(3)}
	require.NoError(t, s.Insert(ctx, tr))

	tr.Ticker = "MUTATED"
	got, err := s.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", got.Ticker, "store must hold its own copy")
}

func TestRunStore(t *testing.T) {
	ctx := context.Background()
	s := NewRunStore()

	r1 := &domain.BacktestRun{RunID: "r1", StrategyTag: "orb", StartedAt: day(4)}
	r2 := &domain.BacktestRun{RunID: "r2", StrategyTag: "orb", StartedAt: day(3)}
	require.NoError(t, s.Insert(ctx, r1))
	require.NoError(t, s.Insert(ctx, r2))

	got, err := s.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "orb", got.StrategyTag)

	runs, err := s.GetByStrategy(ctx, "orb")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "r2", runs[0].RunID, "runs must be ordered by started_at")

	assert.ErrorIs(t, s.Insert(ctx, r1), storage.ErrDuplicateKey)
}
