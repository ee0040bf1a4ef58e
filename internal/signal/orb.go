package signal

import "gap-trade-lab/internal/domain"

// ORB defaults.
const (
	defaultOpeningRangeBars = 6
	defaultBreakoutOffset   = 0.05
	defaultRiskReward       = 2.0

	orbMinBars = 12

	// Risk bounds as fractions of the entry price.
	orbMinRiskFrac = 0.01
	orbMaxRiskFrac = 0.02
)

// ORB trades opening-range breakouts: a buy stop just above the high of
// the opening range, stop at the range low (tightened when the range is
// unusually wide) and a fixed risk-reward target.
type ORB struct {
	name             string
	openingRangeBars int
	breakoutOffset   float64
	riskReward       float64
}

var _ Generator = (*ORB)(nil)

// NewORB creates the generator with default parameters.
func NewORB(name string) *ORB {
	return &ORB{
		name:             name,
		openingRangeBars: defaultOpeningRangeBars,
		breakoutOffset:   defaultBreakoutOffset,
		riskReward:       defaultRiskReward,
	}
}

// Tag implements Generator.
func (g *ORB) Tag() string { return g.name }

// Generate implements Generator.
func (g *ORB) Generate(in *Input) (*domain.StrategySetup, domain.ResultCode) {
	day := in.Day
	if day.Len() < orbMinBars {
		return nil, ""
	}
	if !in.TrendOK {
		return nil, domain.ResultNoTrend
	}

	orbHigh, orbLow := openingRange(day.Bars, g.openingRangeBars)
	entry := orbHigh + g.breakoutOffset

	risk := entry - orbLow
	stop := orbLow
	if risk <= 0 {
		risk = entry * orbMinRiskFrac
		stop = entry - risk
	} else if risk > entry*orbMaxRiskFrac {
		risk = entry * orbMaxRiskFrac
		stop = entry - risk
	}

	return &domain.StrategySetup{
		StrategyTag: g.name,
		Kind:        domain.EntryBuyStop,
		Level:       orbHigh,
		Strict:      true,
		ScanFrom:    g.openingRangeBars,
		Entry:       entry,
		Stop:        stop,
		Target1:     entry + g.riskReward*risk,
		Scaled:      false,
		GapPct:      in.GapPct(),
	}, ""
}
