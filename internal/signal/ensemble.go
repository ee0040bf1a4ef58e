package signal

import (
	"gap-trade-lab/internal/domain"
	"gap-trade-lab/internal/indicator"
)

// Ensemble defaults.
const (
	defaultRSIPeriod     = 14
	defaultRSIOversold   = 30.0
	defaultATRStopMult   = 2.0
	defaultATRTargetMult = 3.0

	ensembleMinBars = 12
)

// Ensemble combines two regimes of one ticker: with an intact local
// trend it trades gap-and-go breakouts above the opening range; in a
// broken trend it falls back to RSI mean reversion with ATR-sized stops.
// At most one leg fires per day.
type Ensemble struct {
	name string

	minGapPct      float64
	maxGapPct      float64
	rangeBars      int
	breakoutOffset float64
	riskReward     float64

	rsiPeriod     int
	rsiOversold   float64
	atrStopMult   float64
	atrTargetMult float64
}

var _ Generator = (*Ensemble)(nil)

// NewEnsemble creates the generator with default parameters.
func NewEnsemble(name string) *Ensemble {
	return &Ensemble{
		name:           name,
		minGapPct:      defaultMinGapPct,
		maxGapPct:      defaultMaxGapPct,
		rangeBars:      defaultOpeningRangeBars,
		breakoutOffset: defaultBreakoutOffset,
		riskReward:     defaultRiskReward,
		rsiPeriod:      defaultRSIPeriod,
		rsiOversold:    defaultRSIOversold,
		atrStopMult:    defaultATRStopMult,
		atrTargetMult:  defaultATRTargetMult,
	}
}

// Tag implements Generator.
func (g *Ensemble) Tag() string { return g.name }

// Generate implements Generator.
func (g *Ensemble) Generate(in *Input) (*domain.StrategySetup, domain.ResultCode) {
	if in.Day.Len() < ensembleMinBars {
		return nil, ""
	}
	if in.TrendOK {
		return g.gapAndGo(in)
	}
	return g.rsiReversion(in)
}

// gapAndGo buys a breakout above the opening range on a gapped-up open.
// The band is one-sided: gap-downs never qualify.
func (g *Ensemble) gapAndGo(in *Input) (*domain.StrategySetup, domain.ResultCode) {
	gap := in.GapPct()
	if gap <= g.minGapPct || gap >= g.maxGapPct {
		return nil, domain.ResultBadGapSize
	}

	orbHigh, orbLow := openingRange(in.Day.Bars, g.rangeBars)
	entry := orbHigh + g.breakoutOffset
	risk := entry - orbLow

	return &domain.StrategySetup{
		StrategyTag: g.name,
		Kind:        domain.EntryBuyStop,
		Level:       entry,
		Strict:      false,
		ScanFrom:    0,
		Entry:       entry,
		Stop:        orbLow,
		Target1:     entry + g.riskReward*risk,
		Scaled:      false,
		GapPct:      gap,
	}, ""
}

// rsiReversion arms a buy stop above the last bar once the day's RSI
// is oversold, with ATR multiples for stop and target.
func (g *Ensemble) rsiReversion(in *Input) (*domain.StrategySetup, domain.ResultCode) {
	bars := in.Day.Bars

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	rsi, ok := indicator.RSI(closes, g.rsiPeriod)
	if !ok {
		return nil, ""
	}
	if rsi >= g.rsiOversold {
		return nil, domain.ResultNoEntry
	}

	atr, ok := indicator.ATR(bars, g.rsiPeriod)
	if !ok {
		return nil, ""
	}

	trigger := bars[len(bars)-1].High + g.breakoutOffset

	return &domain.StrategySetup{
		StrategyTag: g.name,
		Kind:        domain.EntryBuyStop,
		Level:       trigger,
		Strict:      false,
		ScanFrom:    0,
		Entry:       trigger,
		Stop:        trigger - g.atrStopMult*atr,
		Target1:     trigger + g.atrTargetMult*atr,
		Scaled:      false,
		GapPct:      in.GapPct(),
	}, ""
}
