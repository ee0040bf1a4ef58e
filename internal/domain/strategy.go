package domain

// Strategy type identifiers accepted by the signal factory.
const (
	StrategyGapVWAP  = "GAP_VWAP"
	StrategyORB      = "ORB"
	StrategyEnsemble = "ENSEMBLE"
)

// StrategyConfig selects and parameterizes a signal generator. Optional
// fields are pointers so the factory can tell "absent" from zero and
// apply per-strategy defaults.
type StrategyConfig struct {
	Type string `yaml:"type"`
	Name string `yaml:"name"`

	// GAP_VWAP
	MinGapPct        *float64 `yaml:"min_gap_pct,omitempty"`
	MaxGapPct        *float64 `yaml:"max_gap_pct,omitempty"`
	VWAPProximityPct *float64 `yaml:"vwap_proximity_pct,omitempty"`
	StopOffset       *float64 `yaml:"stop_offset,omitempty"`
	Target1Offset    *float64 `yaml:"target1_offset,omitempty"`
	Target2Offset    *float64 `yaml:"target2_offset,omitempty"`
	MaxHoldBars      *int     `yaml:"max_hold_bars,omitempty"`
	EntryWindowBars  *int     `yaml:"entry_window_bars,omitempty"`

	// ORB / ENSEMBLE
	OpeningRangeBars *int     `yaml:"opening_range_bars,omitempty"`
	BreakoutOffset   *float64 `yaml:"breakout_offset,omitempty"`
	RiskRewardRatio  *float64 `yaml:"risk_reward_ratio,omitempty"`

	// ENSEMBLE reversion leg
	RSIPeriod     *int     `yaml:"rsi_period,omitempty"`
	RSIOversold   *float64 `yaml:"rsi_oversold,omitempty"`
	ATRStopMult   *float64 `yaml:"atr_stop_mult,omitempty"`
	ATRTargetMult *float64 `yaml:"atr_target_mult,omitempty"`
}
