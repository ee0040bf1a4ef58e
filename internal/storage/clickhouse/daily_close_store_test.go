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

func TestDailyCloseStoreRoundTrip(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewDailyCloseStore(conn)

	d := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	closes := []domain.DailyClose{
		{Symbol: "SPY", Day: d, Close: 500},
		{Symbol: "SPY", Day: d.AddDate(0, 0, 1), Close: 502},
		{Symbol: "VIX", Day: d, Close: 15.5},
	}
	require.NoError(t, store.InsertBulk(ctx, closes))

	got, err := store.GetBySymbol(ctx, "SPY")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, closes[:2], got)

	err = store.InsertBulk(ctx, closes[:1])
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}
