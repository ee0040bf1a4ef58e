package decision

import (
	"fmt"

	"gap-trade-lab/internal/domain"
)

// Evaluator scores a metrics set against the validation criteria.
type Evaluator struct{}

// NewEvaluator creates a new decision evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate produces the verdict from computed metrics.
// PASS when at least RequiredPasses of the five criteria hold; the
// count and per-criterion checklist are always surfaced so a borderline
// PASS is visible as such.
func (e *Evaluator) Evaluate(m *domain.BacktestMetrics) *Result {
	criteria := e.evaluateCriteria(m)

	passed := 0
	for _, c := range criteria {
		if c.Pass {
			passed++
		}
	}

	verdict := domain.VerdictFail
	if passed >= RequiredPasses {
		verdict = domain.VerdictPass
	}

	return &Result{
		Verdict:      verdict,
		ChecksPassed: passed,
		Criteria:     criteria,
	}
}

// evaluateCriteria evaluates the 5 validation criteria.
func (e *Evaluator) evaluateCriteria(m *domain.BacktestMetrics) []CriterionResult {
	criteria := make([]CriterionResult, 5)

	criteria[0] = CriterionResult{
		Name:      "Win rate",
		Threshold: fmt.Sprintf(">= %.0f%%", MinWinRate),
		Actual:    fmt.Sprintf("%.1f%%", m.WinRate),
		Pass:      m.WinRate >= MinWinRate,
	}

	criteria[1] = CriterionResult{
		Name:      "Sharpe ratio",
		Threshold: fmt.Sprintf(">= %.1f", MinSharpe),
		Actual:    fmt.Sprintf("%.2f", m.Sharpe),
		Pass:      m.Sharpe >= MinSharpe,
	}

	criteria[2] = CriterionResult{
		Name:      "Statistical significance",
		Threshold: fmt.Sprintf("p < %.2f", MaxPValue),
		Actual:    fmt.Sprintf("p = %.4f", m.PValue),
		Pass:      m.Significant,
	}

	criteria[3] = CriterionResult{
		Name:      "Sample size",
		Threshold: fmt.Sprintf(">= %d trades", MinTrades),
		Actual:    fmt.Sprintf("%d trades", m.TotalTrades),
		Pass:      m.TotalTrades >= MinTrades,
	}

	criteria[4] = CriterionResult{
		Name:      "Profit factor",
		Threshold: fmt.Sprintf(">= %.1f", MinProfitFactor),
		Actual:    fmt.Sprintf("%.2f", m.ProfitFactor),
		Pass:      m.ProfitFactor >= MinProfitFactor,
	}

	return criteria
}
