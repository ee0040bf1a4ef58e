package signal

import (
	"errors"
	"fmt"

	"gap-trade-lab/internal/domain"
)

// Factory errors
var (
	ErrUnknownStrategyType = errors.New("unknown strategy type")
	ErrInvalidGapBand      = errors.New("min_gap_pct must be below max_gap_pct")
)

// FromConfig creates a Generator from domain.StrategyConfig.
// Absent optional parameters keep the generator defaults; present ones
// are validated before being applied.
func FromConfig(cfg domain.StrategyConfig) (Generator, error) {
	name := cfg.Name
	if name == "" {
		name = cfg.Type
	}

	switch cfg.Type {
	case domain.StrategyGapVWAP:
		return fromGapVWAPConfig(name, cfg)
	case domain.StrategyORB:
		return fromORBConfig(name, cfg)
	case domain.StrategyEnsemble:
		return fromEnsembleConfig(name, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategyType, cfg.Type)
	}
}

func gapBand(cfg domain.StrategyConfig, min, max float64) (float64, float64, error) {
	if cfg.MinGapPct != nil {
		min = *cfg.MinGapPct
	}
	if cfg.MaxGapPct != nil {
		max = *cfg.MaxGapPct
	}
	if min >= max {
		return 0, 0, ErrInvalidGapBand
	}
	return min, max, nil
}

func fromGapVWAPConfig(name string, cfg domain.StrategyConfig) (*GapVWAP, error) {
	g := NewGapVWAP(name)

	var err error
	if g.minGapPct, g.maxGapPct, err = gapBand(cfg, g.minGapPct, g.maxGapPct); err != nil {
		return nil, err
	}
	if cfg.VWAPProximityPct != nil {
		if *cfg.VWAPProximityPct <= 0 {
			return nil, fmt.Errorf("vwap_proximity_pct must be positive, got %v", *cfg.VWAPProximityPct)
		}
		g.proximityPct = *cfg.VWAPProximityPct
	}
	if cfg.StopOffset != nil {
		g.stopOffset = *cfg.StopOffset
	}
	if cfg.Target1Offset != nil {
		g.target1Offset = *cfg.Target1Offset
	}
	if cfg.Target2Offset != nil {
		g.target2Offset = *cfg.Target2Offset
	}
	if cfg.MaxHoldBars != nil {
		g.maxHoldBars = *cfg.MaxHoldBars
	}
	if cfg.EntryWindowBars != nil {
		g.entryWindowBars = *cfg.EntryWindowBars
	}

	return g, nil
}

func fromORBConfig(name string, cfg domain.StrategyConfig) (*ORB, error) {
	g := NewORB(name)

	if cfg.OpeningRangeBars != nil {
		if *cfg.OpeningRangeBars <= 0 {
			return nil, fmt.Errorf("opening_range_bars must be positive, got %d", *cfg.OpeningRangeBars)
		}
		g.openingRangeBars = *cfg.OpeningRangeBars
	}
	if cfg.BreakoutOffset != nil {
		g.breakoutOffset = *cfg.BreakoutOffset
	}
	if cfg.RiskRewardRatio != nil {
		g.riskReward = *cfg.RiskRewardRatio
	}

	return g, nil
}

func fromEnsembleConfig(name string, cfg domain.StrategyConfig) (*Ensemble, error) {
	g := NewEnsemble(name)

	var err error
	if g.minGapPct, g.maxGapPct, err = gapBand(cfg, g.minGapPct, g.maxGapPct); err != nil {
		return nil, err
	}
	if cfg.OpeningRangeBars != nil {
		if *cfg.OpeningRangeBars <= 0 {
			return nil, fmt.Errorf("opening_range_bars must be positive, got %d", *cfg.OpeningRangeBars)
		}
		g.rangeBars = *cfg.OpeningRangeBars
	}
	if cfg.BreakoutOffset != nil {
		g.breakoutOffset = *cfg.BreakoutOffset
	}
	if cfg.RiskRewardRatio != nil {
		g.riskReward = *cfg.RiskRewardRatio
	}
	if cfg.RSIPeriod != nil {
		if *cfg.RSIPeriod <= 0 {
			return nil, fmt.Errorf("rsi_period must be positive, got %d", *cfg.RSIPeriod)
		}
		g.rsiPeriod = *cfg.RSIPeriod
	}
	if cfg.RSIOversold != nil {
		g.rsiOversold = *cfg.RSIOversold
	}
	if cfg.ATRStopMult != nil {
		g.atrStopMult = *cfg.ATRStopMult
	}
	if cfg.ATRTargetMult != nil {
		g.atrTargetMult = *cfg.ATRTargetMult
	}

	return g, nil
}
