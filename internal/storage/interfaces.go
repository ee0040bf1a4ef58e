package storage

import (
	"context"
	"time"

	"gap-trade-lab/internal/domain"
)

// BarStore provides access to intraday bars storage.
type BarStore interface {
	// InsertBulk adds multiple bars. Fails entire batch on duplicate (ticker, timestamp).
	InsertBulk(ctx context.Context, bars []domain.Bar) error

	// GetByTicker retrieves all bars for a ticker, ordered by timestamp ASC.
	GetByTicker(ctx context.Context, ticker string) ([]domain.Bar, error)

	// GetByTickerRange retrieves a ticker's bars within [start, end] (inclusive).
	GetByTickerRange(ctx context.Context, ticker string, start, end time.Time) ([]domain.Bar, error)

	// Tickers lists the distinct tickers present, sorted.
	Tickers(ctx context.Context) ([]string, error)
}

// DailyCloseStore provides access to daily_closes storage (benchmark,
// volatility index and per-ticker daily series).
type DailyCloseStore interface {
	// InsertBulk adds multiple closes. Fails entire batch on duplicate (symbol, day).
	InsertBulk(ctx context.Context, closes []domain.DailyClose) error

	// GetBySymbol retrieves all closes for a symbol, ordered by day ASC.
	GetBySymbol(ctx context.Context, symbol string) ([]domain.DailyClose, error)
}

// TradeStore provides access to simulated_trades storage.
type TradeStore interface {
	// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
	Insert(ctx context.Context, t *domain.SimulatedTrade) error

	// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, trades []*domain.SimulatedTrade) error

	// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, tradeID string) (*domain.SimulatedTrade, error)

	// GetByStrategy retrieves all trades for a strategy tag, ordered by (day, ticker) ASC.
	GetByStrategy(ctx context.Context, strategyTag string) ([]*domain.SimulatedTrade, error)

	// GetByTicker retrieves all trades for a ticker, ordered by day ASC.
	GetByTicker(ctx context.Context, ticker string) ([]*domain.SimulatedTrade, error)
}

// RunStore provides access to backtest_runs storage.
type RunStore interface {
	// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, r *domain.BacktestRun) error

	// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, runID string) (*domain.BacktestRun, error)

	// GetByStrategy retrieves all runs for a strategy tag, ordered by started_at ASC.
	GetByStrategy(ctx context.Context, strategyTag string) ([]*domain.BacktestRun, error)
}
