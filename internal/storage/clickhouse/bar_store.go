package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"gap-trade-lab/internal/domain"
	"gap-trade-lab/internal/storage"
)

// BarStore implements storage.BarStore using ClickHouse.
type BarStore struct {
	conn *Conn
}

// NewBarStore creates a new BarStore.
func NewBarStore(conn *Conn) *BarStore {
	return &BarStore{conn: conn}
}

// Compile-time interface check.
var _ storage.BarStore = (*BarStore)(nil)

// InsertBulk adds multiple bars. Fails entire batch on duplicate (ticker, timestamp).
// MergeTree does not enforce uniqueness, so duplicates are checked explicitly.
func (s *BarStore) InsertBulk(ctx context.Context, bars []domain.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	type key struct {
		ticker string
		ts     int64
	}
	seen := make(map[key]struct{}, len(bars))
	for _, b := range bars {
		if b.Ticker == "" || b.Timestamp.IsZero() {
			return storage.ErrInvalidInput
		}
		k := key{b.Ticker, b.Timestamp.UnixMilli()}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	for _, b := range bars {
		exists, err := s.exists(ctx, b.Ticker, b.Timestamp)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO bars (ticker, ts, open, high, low, close, volume)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, b := range bars {
		err = batch.Append(
			b.Ticker, b.Timestamp.UTC(),
			b.Open, b.High, b.Low, b.Close, b.Volume,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByTicker retrieves all bars for a ticker, ordered by timestamp ASC.
func (s *BarStore) GetByTicker(ctx context.Context, ticker string) ([]domain.Bar, error) {
	query := `
		SELECT ticker, ts, open, high, low, close, volume
		FROM bars
		WHERE ticker = ?
		ORDER BY ts ASC
	`

	rows, err := s.conn.Query(ctx, query, ticker)
	if err != nil {
		return nil, fmt.Errorf("query bars by ticker: %w", err)
	}
	defer rows.Close()

	return scanBars(rows)
}

// GetByTickerRange retrieves a ticker's bars within [start, end] (inclusive).
func (s *BarStore) GetByTickerRange(ctx context.Context, ticker string, start, end time.Time) ([]domain.Bar, error) {
	query := `
		SELECT ticker, ts, open, high, low, close, volume
		FROM bars
		WHERE ticker = ? AND ts >= ? AND ts <= ?
		ORDER BY ts ASC
	`

	rows, err := s.conn.Query(ctx, query, ticker, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("query bars by time range: %w", err)
	}
	defer rows.Close()

	return scanBars(rows)
}

// Tickers lists the distinct tickers present, sorted.
func (s *BarStore) Tickers(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT ticker FROM bars ORDER BY ticker ASC`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query distinct tickers: %w", err)
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan ticker row: %w", err)
		}
		tickers = append(tickers, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ticker rows: %w", err)
	}

	return tickers, nil
}

// exists checks if a bar with the given key exists.
func (s *BarStore) exists(ctx context.Context, ticker string, ts time.Time) (bool, error) {
	query := `SELECT count(*) FROM bars WHERE ticker = ? AND ts = ?`

	var count uint64
	err := s.conn.QueryRow(ctx, query, ticker, ts.UTC()).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanBars scans multiple rows.
func scanBars(rows driver.Rows) ([]domain.Bar, error) {
	var bars []domain.Bar

	for rows.Next() {
		var b domain.Bar
		var ts time.Time

		err := rows.Scan(&b.Ticker, &ts, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume)
		if err != nil {
			return nil, fmt.Errorf("scan bar row: %w", err)
		}

		b.Timestamp = ts.UTC()
		bars = append(bars, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bar rows: %w", err)
	}

	return bars, nil
}
