package signal

import (
	"math"

	"gap-trade-lab/internal/domain"
	"gap-trade-lab/internal/indicator"
)

// GapVWAP defaults.
const (
	defaultMinGapPct       = 2.0
	defaultMaxGapPct       = 10.0
	defaultVWAPProximity   = 1.0
	defaultStopOffset      = 0.25
	defaultTarget1Offset   = 0.25
	defaultTarget2Offset   = 0.50
	defaultMaxHoldBars     = 24
	defaultEntryWindowBars = 24

	gapVWAPMinBars = 20
)

// GapVWAP trades overnight gaps that reclaim VWAP: when the day opens
// with a sizeable gap and price trades back to within a small band of
// VWAP early in the session, it enters at that bar's close with a fixed
// stop and two scaled targets.
type GapVWAP struct {
	name            string
	minGapPct       float64
	maxGapPct       float64
	proximityPct    float64
	stopOffset      float64
	target1Offset   float64
	target2Offset   float64
	maxHoldBars     int
	entryWindowBars int
}

var _ Generator = (*GapVWAP)(nil)

// NewGapVWAP creates the generator with default parameters.
func NewGapVWAP(name string) *GapVWAP {
	return &GapVWAP{
		name:            name,
		minGapPct:       defaultMinGapPct,
		maxGapPct:       defaultMaxGapPct,
		proximityPct:    defaultVWAPProximity,
		stopOffset:      defaultStopOffset,
		target1Offset:   defaultTarget1Offset,
		target2Offset:   defaultTarget2Offset,
		maxHoldBars:     defaultMaxHoldBars,
		entryWindowBars: defaultEntryWindowBars,
	}
}

// Tag implements Generator.
func (g *GapVWAP) Tag() string { return g.name }

// Generate implements Generator.
func (g *GapVWAP) Generate(in *Input) (*domain.StrategySetup, domain.ResultCode) {
	day := in.Day
	if day.Len() < gapVWAPMinBars {
		return nil, ""
	}

	gap := in.GapPct()

	if !in.TrendOK {
		return nil, domain.ResultNoTrend
	}
	if abs := math.Abs(gap); abs < g.minGapPct || abs > g.maxGapPct {
		return nil, domain.ResultBadGapSize
	}

	vwap := indicator.VWAP(day.Bars)

	window := g.entryWindowBars
	if window > day.Len() {
		window = day.Len()
	}

	entryBar := -1
	for i := 0; i < window; i++ {
		dist := math.Abs(day.Bars[i].Close-vwap[i]) / vwap[i] * 100
		if dist < g.proximityPct {
			entryBar = i
			break
		}
	}
	if entryBar < 0 {
		return nil, domain.ResultNoEntry
	}

	entry := day.Bars[entryBar].Close
	return &domain.StrategySetup{
		StrategyTag: g.name,
		Kind:        domain.EntryAtBar,
		EntryBar:    entryBar,
		Entry:       entry,
		Stop:        entry - g.stopOffset,
		Target1:     entry + g.target1Offset,
		Target2:     entry + g.target2Offset,
		Scaled:      true,
		MaxHoldBars: g.maxHoldBars,
		GapPct:      gap,
	}, ""
}
