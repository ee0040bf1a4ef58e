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

// DailyCloseStore is an in-memory implementation of storage.DailyCloseStore.
type DailyCloseStore struct {
	mu   sync.RWMutex
	data map[string][]domain.DailyClose // keyed by symbol, kept sorted by day
	keys map[string]struct{}            // (symbol, day) uniqueness
}

// NewDailyCloseStore creates a new in-memory daily close store.
func NewDailyCloseStore() *DailyCloseStore {
	return &DailyCloseStore{
		data: make(map[string][]domain.DailyClose),
		keys: make(map[string]struct{}),
	}
}

func closeKey(symbol string, day time.Time) string {
	return fmt.Sprintf("%s|%d", symbol, day.Unix())
}

// InsertBulk adds multiple closes. Fails entire batch on duplicate (symbol, day).
func (s *DailyCloseStore) InsertBulk(_ context.Context, closes []domain.DailyClose) error {
	if len(closes) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(closes))
	for _, c := range closes {
		if c.Symbol == "" || c.Day.IsZero() {
			return storage.ErrInvalidInput
		}
		k := closeKey(c.Symbol, c.Day)
		if _, exists := s.keys[k]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[k]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[k] = struct{}{}
	}

	for _, c := range closes {
		s.keys[closeKey(c.Symbol, c.Day)] = struct{}{}
		s.data[c.Symbol] = append(s.data[c.Symbol], c)
	}
	for symbol := range s.data {
		sort.Slice(s.data[symbol], func(i, j int) bool {
			return s.data[symbol][i].Day.Before(s.data[symbol][j].Day)
		})
	}

	return nil
}

// GetBySymbol retrieves all closes for a symbol, ordered by day ASC.
func (s *DailyCloseStore) GetBySymbol(_ context.Context, symbol string) ([]domain.DailyClose, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.DailyClose, len(s.data[symbol]))
	copy(out, s.data[symbol])
	return out, nil
}

var _ storage.DailyCloseStore = (*DailyCloseStore)(nil)
