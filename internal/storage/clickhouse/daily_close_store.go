package clickhouse

import (
	"context"
	"fmt"
	"time"

	"gap-trade-lab/internal/domain"
	"gap-trade-lab/internal/storage"
)

// DailyCloseStore implements storage.DailyCloseStore using ClickHouse.
type DailyCloseStore struct {
	conn *Conn
}

// NewDailyCloseStore creates a new DailyCloseStore.
func NewDailyCloseStore(conn *Conn) *DailyCloseStore {
	return &DailyCloseStore{conn: conn}
}

// Compile-time interface check.
var _ storage.DailyCloseStore = (*DailyCloseStore)(nil)

// InsertBulk adds multiple closes. Fails entire batch on duplicate (symbol, day).
func (s *DailyCloseStore) InsertBulk(ctx context.Context, closes []domain.DailyClose) error {
	if len(closes) == 0 {
		return nil
	}

	type key struct {
		symbol string
		day    int64
	}
	seen := make(map[key]struct{}, len(closes))
	for _, c := range closes {
		if c.Symbol == "" || c.Day.IsZero() {
			return storage.ErrInvalidInput
		}
		k := key{c.Symbol, c.Day.Unix()}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	for _, c := range closes {
		exists, err := s.exists(ctx, c.Symbol, c.Day)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO daily_closes (symbol, day, close)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, c := range closes {
		if err := batch.Append(c.Symbol, c.Day.UTC(), c.Close); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetBySymbol retrieves all closes for a symbol, ordered by day ASC.
func (s *DailyCloseStore) GetBySymbol(ctx context.Context, symbol string) ([]domain.DailyClose, error) {
	query := `
		SELECT symbol, day, close
		FROM daily_closes
		WHERE symbol = ?
		ORDER BY day ASC
	`

	rows, err := s.conn.Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("query daily closes by symbol: %w", err)
	}
	defer rows.Close()

	var closes []domain.DailyClose
	for rows.Next() {
		var c domain.DailyClose
		var day time.Time

		if err := rows.Scan(&c.Symbol, &day, &c.Close); err != nil {
			return nil, fmt.Errorf("scan daily close row: %w", err)
		}

		c.Day = day.UTC()
		closes = append(closes, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily close rows: %w", err)
	}

	return closes, nil
}

// exists checks if a close with the given key exists.
func (s *DailyCloseStore) exists(ctx context.Context, symbol string, day time.Time) (bool, error) {
	query := `SELECT count(*) FROM daily_closes WHERE symbol = ? AND day = ?`

	var count uint64
	err := s.conn.QueryRow(ctx, query, symbol, day.UTC()).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
