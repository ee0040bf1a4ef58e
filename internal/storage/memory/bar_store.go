package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gap-trade-lab/internal/domain"
	"gap-trade-lab/internal/storage"
)

// BarStore is an in-memory implementation of storage.BarStore.
type BarStore struct {
	mu   sync.RWMutex
	data map[string][]domain.Bar // keyed by ticker, kept sorted by timestamp
	keys map[string]struct{}     // (ticker, timestamp) uniqueness
}

// NewBarStore creates a new in-memory bar store.
func NewBarStore() *BarStore {
	return &BarStore{
		data: make(map[string][]domain.Bar),
		keys: make(map[string]struct{}),
	}
}

func barKey(ticker string, ts time.Time) string {
	return fmt.Sprintf("%s|%d", ticker, ts.UnixNano())
}

// InsertBulk adds multiple bars. Fails entire batch on duplicate (ticker, timestamp).
func (s *BarStore) InsertBulk(_ context.Context, bars []domain.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(bars))
	for _, b := range bars {
		if b.Ticker == "" || b.Timestamp.IsZero() {
			return storage.ErrInvalidInput
		}
		k := barKey(b.Ticker, b.Timestamp)
		if _, exists := s.keys[k]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[k]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[k] = struct{}{}
	}

	for _, b := range bars {
		s.keys[barKey(b.Ticker, b.Timestamp)] = struct{}{}
		s.data[b.Ticker] = append(s.data[b.Ticker], b)
	}
	for ticker := range s.data {
		sort.Slice(s.data[ticker], func(i, j int) bool {
			return s.data[ticker][i].Timestamp.Before(s.data[ticker][j].Timestamp)
		})
	}

	return nil
}

// GetByTicker retrieves all bars for a ticker, ordered by timestamp ASC.
func (s *BarStore) GetByTicker(_ context.Context, ticker string) ([]domain.Bar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Bar, len(s.data[ticker]))
	copy(out, s.data[ticker])
	return out, nil
}

// GetByTickerRange retrieves a ticker's bars within [start, end] (inclusive).
func (s *BarStore) GetByTickerRange(_ context.Context, ticker string, start, end time.Time) ([]domain.Bar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Bar
	for _, b := range s.data[ticker] {
		if !b.Timestamp.Before(start) && !b.Timestamp.After(end) {
			out = append(out, b)
		}
	}
	return out, nil
}

// Tickers lists the distinct tickers present, sorted.
func (s *BarStore) Tickers(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.data))
	for t := range s.data {
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}

var _ storage.BarStore = (*BarStore)(nil)
