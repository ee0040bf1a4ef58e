// Package sim replays one StrategySetup against one day's bars and
// produces the realized SimulatedTrade. Pure functions only: same
// inputs always yield the same trade.
package sim

import "gap-trade-lab/internal/domain"

// Simulate walks the day bar by bar from the setup's entry trigger to a
// terminal state. Fills use intrabar highs and lows; P&L is per share.
//
// Management starts on the entry bar itself and runs a fixed order on
// every bar: time exit, stop, first target, final target. A day that
// ends with the position open is flattened at the last close.
func Simulate(day *domain.DaySeries, setup *domain.StrategySetup) *domain.SimulatedTrade {
	bars := day.Bars

	entryBar, ok := findEntry(bars, setup)
	if !ok {
		return domain.NewSkip(day.Ticker, day.Day, setup.StrategyTag, domain.ResultNoEntry, setup.GapPct)
	}

	entry := setup.Entry
	stop := setup.Stop
	banked := 0.0
	firstHit := false

	exit := func(i int, result domain.ResultCode, exitPrice, pnl float64) *domain.SimulatedTrade {
		return &domain.SimulatedTrade{
			Ticker:         day.Ticker,
			Day:            day.Day,
			StrategyTag:    setup.StrategyTag,
			Result:         result,
			GapPct:         setup.GapPct,
			Entry:          entry,
			Exit:           exitPrice,
			PnLPerShare:    pnl,
			Win:            pnl > 0,
			BarsHeld:       i - entryBar,
			FirstTargetHit: firstHit,
		}
	}

	for i := entryBar; i < len(bars); i++ {
		b := bars[i]
		barsHeld := i - entryBar

		// Dead position past the hold cap: flatten at the close.
		if setup.MaxHoldBars > 0 && barsHeld >= setup.MaxHoldBars && !firstHit && b.Close-entry <= 0 {
			return exit(i, domain.ResultTimeExit, b.Close, b.Close-entry)
		}

		if b.Low <= stop {
			pnl := stop - entry
			if firstHit {
				pnl = banked + 0.5*(stop-entry)
			}
			return exit(i, domain.ResultStoppedOut, stop, pnl)
		}

		if setup.Scaled {
			if !firstHit && b.High >= setup.Target1 {
				// Bank half and move the stop to breakeven. The final
				// target may still fill on this same bar.
				banked = 0.5 * (setup.Target1 - entry)
				stop = entry
				firstHit = true
			}
			if firstHit && b.High >= setup.Target2 {
				return exit(i, domain.ResultFullTarget, setup.Target2, banked+0.5*(setup.Target2-entry))
			}
		} else if b.High >= setup.Target1 {
			return exit(i, domain.ResultFullTarget, setup.Target1, setup.Target1-entry)
		}
	}

	// Day over with the position open.
	last := len(bars) - 1
	lastClose := bars[last].Close
	pnl := lastClose - entry
	if firstHit {
		pnl = banked + 0.5*(lastClose-entry)
	}
	return exit(last, domain.ResultEODExit, lastClose, pnl)
}

// findEntry resolves the entry bar index, or false when the trigger
// never fires.
func findEntry(bars []domain.Bar, setup *domain.StrategySetup) (int, bool) {
	switch setup.Kind {
	case domain.EntryAtBar:
		if setup.EntryBar < 0 || setup.EntryBar >= len(bars) {
			return 0, false
		}
		return setup.EntryBar, true

	case domain.EntryBuyStop:
		for i := setup.ScanFrom; i < len(bars); i++ {
			h := bars[i].High
			if setup.Strict && h > setup.Level {
				return i, true
			}
			if !setup.Strict && h >= setup.Level {
				return i, true
			}
		}
		return 0, false
	}

	return 0, false
}
