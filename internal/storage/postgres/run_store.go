package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"gap-trade-lab/internal/domain"
	"gap-trade-lab/internal/storage"
)

// RunStore implements storage.RunStore using PostgreSQL. The trade log
// itself lives in simulated_trades; runs persist identity, diagnostics,
// metrics and the verdict.
type RunStore struct {
	pool *Pool
}

// NewRunStore creates a new RunStore.
func NewRunStore(pool *Pool) *RunStore {
	return &RunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RunStore = (*RunStore)(nil)

const runColumns = `
	run_id, strategy_tag, started_at, finished_at, tickers,
	diagnostics, metrics, verdict, checks_passed
`

// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
func (s *RunStore) Insert(ctx context.Context, r *domain.BacktestRun) error {
	diagJSON, err := json.Marshal(r.Diagnostics)
	if err != nil {
		return fmt.Errorf("marshal diagnostics: %w", err)
	}

	var metricsJSON []byte
	if r.Metrics != nil {
		metricsJSON, err = json.Marshal(r.Metrics)
		if err != nil {
			return fmt.Errorf("marshal metrics: %w", err)
		}
	}

	query := `
		INSERT INTO backtest_runs (
			run_id, strategy_tag, started_at, finished_at, tickers,
			diagnostics, metrics, verdict, checks_passed
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9
		)
	`

	_, err = s.pool.Exec(ctx, query,
		r.RunID, r.StrategyTag, r.StartedAt, r.FinishedAt, r.Tickers,
		diagJSON, metricsJSON, string(r.Verdict), r.ChecksPassed,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert backtest run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *RunStore) GetByID(ctx context.Context, runID string) (*domain.BacktestRun, error) {
	query := `SELECT ` + runColumns + ` FROM backtest_runs WHERE run_id = $1`

	row := s.pool.QueryRow(ctx, query, runID)
	r, err := scanRun(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get backtest run by id: %w", err)
	}
	return r, nil
}

// GetByStrategy retrieves all runs for a strategy tag, ordered by started_at ASC.
func (s *RunStore) GetByStrategy(ctx context.Context, strategyTag string) ([]*domain.BacktestRun, error) {
	query := `
		SELECT ` + runColumns + `
		FROM backtest_runs
		WHERE strategy_tag = $1
		ORDER BY started_at ASC, run_id ASC
	`

	rows, err := s.pool.Query(ctx, query, strategyTag)
	if err != nil {
		return nil, fmt.Errorf("get backtest runs by strategy: %w", err)
	}
	defer rows.Close()

	var runs []*domain.BacktestRun
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan backtest run row: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate backtest run rows: %w", err)
	}

	return runs, nil
}

// scanRun scans a single row into a BacktestRun.
func scanRun(row pgx.Row) (*domain.BacktestRun, error) {
	var r domain.BacktestRun
	var verdict string
	var diagJSON, metricsJSON []byte

	err := row.Scan(
		&r.RunID, &r.StrategyTag, &r.StartedAt, &r.FinishedAt, &r.Tickers,
		&diagJSON, &metricsJSON, &verdict, &r.ChecksPassed,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(diagJSON, &r.Diagnostics); err != nil {
		return nil, fmt.Errorf("unmarshal diagnostics: %w", err)
	}
	if len(metricsJSON) > 0 {
		r.Metrics = &domain.BacktestMetrics{}
		if err := json.Unmarshal(metricsJSON, r.Metrics); err != nil {
			return nil, fmt.Errorf("unmarshal metrics: %w", err)
		}
	}

	r.Verdict = domain.Verdict(verdict)
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()
	return &r, nil
}
