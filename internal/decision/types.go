package decision

import "gap-trade-lab/internal/domain"

// Thresholds for the five validation criteria.
const (
	MinWinRate      = 55.0
	MinSharpe       = 0.5
	MaxPValue       = 0.05
	MinTrades       = 50
	MinProfitFactor = 1.5

	// RequiredPasses is how many criteria a strategy must clear.
	RequiredPasses = 3
)

// CriterionResult represents pass/fail for one criterion.
type CriterionResult struct {
	Name      string
	Threshold string
	Actual    string
	Pass      bool
}

// Result contains the final verdict with checklist.
type Result struct {
	Verdict      domain.Verdict
	ChecksPassed int
	Criteria     []CriterionResult // 5 validation criteria
}
