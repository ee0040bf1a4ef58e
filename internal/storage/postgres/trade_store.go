package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"gap-trade-lab/internal/domain"
	"gap-trade-lab/internal/storage"
)

// TradeStore implements storage.TradeStore using PostgreSQL.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

const tradeColumns = `
	trade_id, ticker, day, strategy_tag, result, gap_pct,
	entry_price, exit_price, pnl_per_share, win, bars_held, first_target_hit
`

const insertTradeQuery = `
	INSERT INTO simulated_trades (
		trade_id, ticker, day, strategy_tag, result, gap_pct,
		entry_price, exit_price, pnl_per_share, win, bars_held, first_target_hit
	) VALUES (
		$1, $2, $3, $4, $5, $6,
		$7, $8, $9, $10, $11, $12
	)
`

// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
func (s *TradeStore) Insert(ctx context.Context, t *domain.SimulatedTrade) error {
	_, err := s.pool.Exec(ctx, insertTradeQuery,
		t.TradeID, t.Ticker, t.Day, t.StrategyTag, string(t.Result), t.GapPct,
		t.Entry, t.Exit, t.PnLPerShare, t.Win, t.BarsHeld, t.FirstTargetHit,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert simulated trade: %w", err)
	}
	return nil
}

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *TradeStore) InsertBulk(ctx context.Context, trades []*domain.SimulatedTrade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range trades {
		_, err := tx.Exec(ctx, insertTradeQuery,
			t.TradeID, t.Ticker, t.Day, t.StrategyTag, string(t.Result), t.GapPct,
			t.Entry, t.Exit, t.PnLPerShare, t.Win, t.BarsHeld, t.FirstTargetHit,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert simulated trade in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
func (s *TradeStore) GetByID(ctx context.Context, tradeID string) (*domain.SimulatedTrade, error) {
	query := `SELECT ` + tradeColumns + ` FROM simulated_trades WHERE trade_id = $1`

	row := s.pool.QueryRow(ctx, query, tradeID)
	t, err := scanTrade(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get simulated trade by id: %w", err)
	}
	return t, nil
}

// GetByStrategy retrieves all trades for a strategy tag, ordered by (day, ticker) ASC.
func (s *TradeStore) GetByStrategy(ctx context.Context, strategyTag string) ([]*domain.SimulatedTrade, error) {
	query := `
		SELECT ` + tradeColumns + `
		FROM simulated_trades
		WHERE strategy_tag = $1
		ORDER BY day ASC, ticker ASC
	`

	rows, err := s.pool.Query(ctx, query, strategyTag)
	if err != nil {
		return nil, fmt.Errorf("get simulated trades by strategy: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// GetByTicker retrieves all trades for a ticker, ordered by day ASC.
func (s *TradeStore) GetByTicker(ctx context.Context, ticker string) ([]*domain.SimulatedTrade, error) {
	query := `
		SELECT ` + tradeColumns + `
		FROM simulated_trades
		WHERE ticker = $1
		ORDER BY day ASC
	`

	rows, err := s.pool.Query(ctx, query, ticker)
	if err != nil {
		return nil, fmt.Errorf("get simulated trades by ticker: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// scanTrade scans a single row into a SimulatedTrade.
func scanTrade(row pgx.Row) (*domain.SimulatedTrade, error) {
	var t domain.SimulatedTrade
	var result string

	err := row.Scan(
		&t.TradeID, &t.Ticker, &t.Day, &t.StrategyTag, &result, &t.GapPct,
		&t.Entry, &t.Exit, &t.PnLPerShare, &t.Win, &t.BarsHeld, &t.FirstTargetHit,
	)
	if err != nil {
		return nil, err
	}

	t.Result = domain.ResultCode(result)
	t.Day = t.Day.UTC()
	return &t, nil
}

// scanTrades scans multiple rows into a slice of SimulatedTrade.
func scanTrades(rows pgx.Rows) ([]*domain.SimulatedTrade, error) {
	var trades []*domain.SimulatedTrade

	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("scan simulated trade row: %w", err)
		}
		trades = append(trades, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate simulated trade rows: %w", err)
	}

	return trades, nil
}
