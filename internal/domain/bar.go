package domain

import "time"

// Bar represents one intraday sampling interval (5-minute granularity).
// Corresponds to bars table in ClickHouse. Immutable once fetched.
type Bar struct {
	Ticker    string    // equity symbol
	Timestamp time.Time // bar open time (UTC)
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Day returns the calendar trading day the bar belongs to (midnight UTC).
func (b Bar) Day() time.Time {
	y, m, d := b.Timestamp.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaySeries is one trading day's bars for a single ticker,
// in chronological order.
type DaySeries struct {
	Ticker string
	Day    time.Time // midnight UTC
	Bars   []Bar
}

// Open returns the day's opening price.
func (d *DaySeries) Open() float64 {
	return d.Bars[0].Open
}

// Close returns the day's closing price (last bar's close).
func (d *DaySeries) Close() float64 {
	return d.Bars[len(d.Bars)-1].Close
}

// Len returns the number of bars in the day.
func (d *DaySeries) Len() int {
	return len(d.Bars)
}

// SplitDays groups a chronological bar series into per-day series.
// Days come out oldest to newest; bar order within a day is preserved.
func SplitDays(bars []Bar) []*DaySeries {
	var days []*DaySeries
	var current *DaySeries

	for _, b := range bars {
		day := b.Day()
		if current == nil || !current.Day.Equal(day) {
			current = &DaySeries{Ticker: b.Ticker, Day: day}
			days = append(days, current)
		}
		current.Bars = append(current.Bars, b)
	}

	return days
}

// DailyClose is one day's closing value for a daily-granularity series
// (benchmark, volatility index, or per-ticker daily closes).
// Corresponds to daily_closes table in ClickHouse.
type DailyClose struct {
	Symbol string
	Day    time.Time // midnight UTC
	Close  float64
}

// DailyCloses reduces an intraday bar series to per-day closing values,
// oldest to newest.
func DailyCloses(bars []Bar) []DailyClose {
	var out []DailyClose
	for _, d := range SplitDays(bars) {
		out = append(out, DailyClose{Symbol: d.Ticker, Day: d.Day, Close: d.Close()})
	}
	return out
}
