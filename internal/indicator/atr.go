package indicator

import "gap-trade-lab/internal/domain"

// ATR returns the average bar range (high minus low) over the trailing
// period. A range-based simplification rather than true range; adequate
// for sizing stops on a single day's bars. The second return is false
// when fewer than period bars are available.
func ATR(bars []domain.Bar, period int) (float64, bool) {
	if len(bars) < period {
		return 0, false
	}

	var sum float64
	for i := len(bars) - period; i < len(bars); i++ {
		sum += bars[i].High - bars[i].Low
	}

	return sum / float64(period), true
}
