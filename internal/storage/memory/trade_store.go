package memory

import (
	"context"
	"sort"
	"sync"

	"gap-trade-lab/internal/domain"
	"gap-trade-lab/internal/storage"
)

// TradeStore is an in-memory implementation of storage.TradeStore.
type TradeStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SimulatedTrade // keyed by trade_id
}

// NewTradeStore creates a new in-memory trade store.
func NewTradeStore() *TradeStore {
	return &TradeStore{
		data: make(map[string]*domain.SimulatedTrade),
	}
}

// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
func (s *TradeStore) Insert(_ context.Context, t *domain.SimulatedTrade) error {
	if t == nil || t.TradeID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.TradeID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *t
	s.data[t.TradeID] = &copy
	return nil
}

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *TradeStore) InsertBulk(_ context.Context, trades []*domain.SimulatedTrade) error {
	if len(trades) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(trades))
	for _, t := range trades {
		if t == nil || t.TradeID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[t.TradeID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[t.TradeID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[t.TradeID] = struct{}{}
	}

	for _, t := range trades {
		copy := *t
		s.data[t.TradeID] = &copy
	}

	return nil
}

// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
func (s *TradeStore) GetByID(_ context.Context, tradeID string) (*domain.SimulatedTrade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.data[tradeID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *t
	return &copy, nil
}

// GetByStrategy retrieves all trades for a strategy tag, ordered by (day, ticker) ASC.
func (s *TradeStore) GetByStrategy(_ context.Context, strategyTag string) ([]*domain.SimulatedTrade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SimulatedTrade
	for _, t := range s.data {
		if t.StrategyTag == strategyTag {
			copy := *t
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Day.Equal(result[j].Day) {
			return result[i].Day.Before(result[j].Day)
		}
		return result[i].Ticker < result[j].Ticker
	})

	return result, nil
}

// GetByTicker retrieves all trades for a ticker, ordered by day ASC.
func (s *TradeStore) GetByTicker(_ context.Context, ticker string) ([]*domain.SimulatedTrade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SimulatedTrade
	for _, t := range s.data {
		if t.Ticker == ticker {
			copy := *t
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Day.Before(result[j].Day)
	})

	return result, nil
}

var _ storage.TradeStore = (*TradeStore)(nil)
