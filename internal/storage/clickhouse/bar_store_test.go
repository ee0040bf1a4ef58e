package clickhouse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gap-trade-lab/internal/domain"
	"gap-trade-lab/internal/storage"
)

func sampleBars(ticker string, start time.Time, closes ...float64) []domain.Bar {
	var bars []domain.Bar
	for i, c := range closes {
		bars = append(bars, domain.Bar{
			Ticker:    ticker,
			Timestamp: start.Add(time.Duration(i) * 5 * time.Minute),
			Open:      c, High: c + 0.5, Low: c - 0.5, Close: c,
			Volume: 1000,
		})
	}
	return bars
}

func TestBarStoreRoundTrip(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewBarStore(conn)

	start := time.Date(2025, 3, 3, 14, 30, 0, 0, time.UTC)
	bars := sampleBars("AAPL", start, 100, 101, 102)
	require.NoError(t, store.InsertBulk(ctx, bars))
	require.NoError(t, store.InsertBulk(ctx, sampleBars("MSFT", start, 400)))

	got, err := store.GetByTicker(ctx, "AAPL")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, bars, got)

	ranged, err := store.GetByTickerRange(ctx, "AAPL", start, start.Add(5*time.Minute))
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	tickers, err := store.Tickers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, tickers)
}

func TestBarStoreDuplicate(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewBarStore(conn)

	start := time.Date(2025, 3, 3, 14, 30, 0, 0, time.UTC)
	require.NoError(t, store.InsertBulk(ctx, sampleBars("AAPL", start, 100)))

	err := store.InsertBulk(ctx, sampleBars("AAPL", start, 100))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// Intra-batch duplicates are rejected before anything is sent.
	dup := sampleBars("MSFT", start, 400)
	dup = append(dup, dup[0])
	err = store.InsertBulk(ctx, dup)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	got, err := store.GetByTicker(ctx, "MSFT")
	require.NoError(t, err)
	assert.Empty(t, got)
}
