// Package ingest loads intraday bars and daily closes from CSV files
// into storage. Parsing is strict: a malformed record fails the whole
// file so a partial load never masquerades as a complete one.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"gap-trade-lab/internal/domain"
	"gap-trade-lab/internal/observability"
	"gap-trade-lab/internal/storage"
)

// Parse errors.
var (
	ErrBadHeader = errors.New("unexpected CSV header")
	ErrBadRecord = errors.New("malformed CSV record")
)

// Expected headers.
var (
	barHeader   = []string{"ticker", "timestamp", "open", "high", "low", "close", "volume"}
	closeHeader = []string{"symbol", "day", "close"}
)

// Loader writes parsed CSV data into the bar and daily-close stores.
type Loader struct {
	bars   storage.BarStore
	closes storage.DailyCloseStore
	logger *log.Logger
	obs    *observability.Metrics
}

// NewLoader creates a Loader. The daily-close store may be nil when
// only bars are loaded.
func NewLoader(bars storage.BarStore, closes storage.DailyCloseStore, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{bars: bars, closes: closes, logger: logger}
}

// WithObservability attaches Prometheus metrics to the loader.
func (l *Loader) WithObservability(obs *observability.Metrics) *Loader {
	l.obs = obs
	return l
}

// LoadBars parses an intraday bar CSV and bulk-inserts the batch.
// Returns the number of bars written.
func (l *Loader) LoadBars(ctx context.Context, r io.Reader) (int, error) {
	bars, err := ParseBars(r)
	if err != nil {
		l.countError("parse")
		return 0, err
	}
	if len(bars) == 0 {
		return 0, nil
	}

	if err := l.bars.InsertBulk(ctx, bars); err != nil {
		l.countError("insert")
		return 0, fmt.Errorf("insert %d bars: %w", len(bars), err)
	}

	if l.obs != nil {
		l.obs.BarsIngested.Add(float64(len(bars)))
	}
	l.logger.Printf("loaded %d bars", len(bars))
	return len(bars), nil
}

// LoadDailyCloses parses a daily-close CSV and bulk-inserts the batch.
// Returns the number of closes written.
func (l *Loader) LoadDailyCloses(ctx context.Context, r io.Reader) (int, error) {
	closes, err := ParseDailyCloses(r)
	if err != nil {
		l.countError("parse")
		return 0, err
	}
	if len(closes) == 0 {
		return 0, nil
	}

	if err := l.closes.InsertBulk(ctx, closes); err != nil {
		l.countError("insert")
		return 0, fmt.Errorf("insert %d daily closes: %w", len(closes), err)
	}

	if l.obs != nil {
		l.obs.DailyClosesIngested.Add(float64(len(closes)))
	}
	l.logger.Printf("loaded %d daily closes", len(closes))
	return len(closes), nil
}

// DeriveDailyCloses reduces each ticker's stored bars to a per-day close
// series and writes it to the daily-close store. Tickers whose series
// already exists are skipped.
func (l *Loader) DeriveDailyCloses(ctx context.Context, tickers []string) (int, error) {
	var total int
	for _, ticker := range tickers {
		bars, err := l.bars.GetByTicker(ctx, ticker)
		if err != nil {
			return total, fmt.Errorf("load bars for %s: %w", ticker, err)
		}
		closes := domain.DailyCloses(bars)
		if len(closes) == 0 {
			continue
		}

		err = l.closes.InsertBulk(ctx, closes)
		if errors.Is(err, storage.ErrDuplicateKey) {
			l.logger.Printf("daily closes for %s already present, skipping", ticker)
			continue
		}
		if err != nil {
			return total, fmt.Errorf("insert daily closes for %s: %w", ticker, err)
		}

		total += len(closes)
		if l.obs != nil {
			l.obs.DailyClosesIngested.Add(float64(len(closes)))
		}
	}
	return total, nil
}

func (l *Loader) countError(kind string) {
	if l.obs != nil {
		l.obs.IngestErrors.WithLabelValues(kind).Inc()
	}
}

// ParseBars reads an intraday bar CSV. Expected columns:
// ticker, timestamp (RFC3339), open, high, low, close, volume.
func ParseBars(r io.Reader) ([]domain.Bar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(barHeader)

	if err := checkHeader(cr, barHeader); err != nil {
		return nil, err
	}

	var bars []domain.Bar
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadRecord, line, err)
		}

		bar, err := parseBarRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadRecord, line, err)
		}
		bars = append(bars, bar)
	}

	return bars, nil
}

// ParseDailyCloses reads a daily-close CSV. Expected columns:
// symbol, day (2006-01-02), close.
func ParseDailyCloses(r io.Reader) ([]domain.DailyClose, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(closeHeader)

	if err := checkHeader(cr, closeHeader); err != nil {
		return nil, err
	}

	var closes []domain.DailyClose
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadRecord, line, err)
		}

		day, err := time.ParseInLocation("2006-01-02", rec[1], time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: day: %v", ErrBadRecord, line, err)
		}
		c, err := parsePrice(rec[2])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: close: %v", ErrBadRecord, line, err)
		}
		if rec[0] == "" {
			return nil, fmt.Errorf("%w: line %d: empty symbol", ErrBadRecord, line)
		}

		closes = append(closes, domain.DailyClose{Symbol: rec[0], Day: day, Close: c})
	}

	return closes, nil
}

func checkHeader(cr *csv.Reader, want []string) error {
	got, err := cr.Read()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	for i := range want {
		if !strings.EqualFold(strings.TrimSpace(got[i]), want[i]) {
			return fmt.Errorf("%w: got %q, want %q", ErrBadHeader, got, want)
		}
	}
	return nil
}

func parseBarRecord(rec []string) (domain.Bar, error) {
	var bar domain.Bar

	if rec[0] == "" {
		return bar, errors.New("empty ticker")
	}
	bar.Ticker = rec[0]

	ts, err := time.Parse(time.RFC3339, rec[1])
	if err != nil {
		return bar, fmt.Errorf("timestamp: %v", err)
	}
	bar.Timestamp = ts.UTC()

	if bar.Open, err = parsePrice(rec[2]); err != nil {
		return bar, fmt.Errorf("open: %v", err)
	}
	if bar.High, err = parsePrice(rec[3]); err != nil {
		return bar, fmt.Errorf("high: %v", err)
	}
	if bar.Low, err = parsePrice(rec[4]); err != nil {
		return bar, fmt.Errorf("low: %v", err)
	}
	if bar.Close, err = parsePrice(rec[5]); err != nil {
		return bar, fmt.Errorf("close: %v", err)
	}

	bar.Volume, err = strconv.ParseFloat(rec[6], 64)
	if err != nil {
		return bar, fmt.Errorf("volume: %v", err)
	}
	if bar.Volume < 0 {
		return bar, errors.New("negative volume")
	}

	if bar.High < bar.Low {
		return bar, errors.New("high below low")
	}

	return bar, nil
}

func parsePrice(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, errors.New("non-positive price")
	}
	return v, nil
}
