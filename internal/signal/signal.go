// Package signal holds the setup generators. A generator inspects one
// day's bars and either proposes an immutable StrategySetup or names
// the skip reason; the simulator decides what the setup is worth.
package signal

import "gap-trade-lab/internal/domain"

// Input is everything a generator may consult for one (ticker, day).
type Input struct {
	Day       *domain.DaySeries
	PrevClose float64 // prior trading day's close
	TrendOK   bool    // local trend gate verdict for the day
}

// GapPct returns the overnight gap at the open, in percent.
func (in *Input) GapPct() float64 {
	if in.PrevClose == 0 {
		return 0
	}
	return (in.Day.Open() - in.PrevClose) / in.PrevClose * 100
}

// Generator proposes at most one setup per day.
type Generator interface {
	// Generate returns either a setup and an empty code, or a nil setup
	// with the skip reason. Both zero means the day is unusable (too
	// few bars) and is dropped without a record.
	Generate(in *Input) (*domain.StrategySetup, domain.ResultCode)

	// Tag returns the generator identifier stamped onto setups.
	Tag() string
}

// openingRange returns the high and low of the first n bars.
func openingRange(bars []domain.Bar, n int) (high, low float64) {
	high, low = bars[0].High, bars[0].Low
	for _, b := range bars[1:n] {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low
}
