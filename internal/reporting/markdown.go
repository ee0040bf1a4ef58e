package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Backtest Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Run: `%s`\n\n", r.RunID))
	sb.WriteString(fmt.Sprintf("Strategy: %s | Tickers: %d | Verdict: **%s**\n\n",
		r.StrategyTag, len(r.Tickers), r.Verdict))

	// Run Summary
	sb.WriteString("## Run Summary\n\n")
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Started | %s |\n", r.StartedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("| Finished | %s |\n", r.FinishedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("| Universe | %s |\n", strings.Join(r.Tickers, ", ")))
	sb.WriteString(fmt.Sprintf("| Total Trades | %d |\n", r.TradeSummary.TotalTrades))
	if r.TradeSummary.TotalTrades > 0 {
		sb.WriteString(fmt.Sprintf("| Date Range | %s to %s |\n",
			r.TradeSummary.DateRangeStart.Format("2006-01-02"),
			r.TradeSummary.DateRangeEnd.Format("2006-01-02")))
	}
	sb.WriteString("\n")

	// Diagnostics
	sb.WriteString("## Diagnostics\n\n")
	sb.WriteString("| Counter | Value |\n")
	sb.WriteString("|---------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Days Simulated | %d |\n", r.Diagnostics.DaysSimulated))
	sb.WriteString(fmt.Sprintf("| Regime Blocked | %d |\n", r.Diagnostics.RegimeBlocked))
	sb.WriteString(fmt.Sprintf("| Gaps Observed | %d |\n", r.Diagnostics.GapsObserved))
	sb.WriteString(fmt.Sprintf("| Unit Errors | %d |\n", r.Diagnostics.UnitErrors))
	for _, row := range r.Diagnostics.SkipCounts {
		sb.WriteString(fmt.Sprintf("| Skipped: %s | %d |\n", row.Code, row.Count))
	}
	sb.WriteString("\n")

	// Trade outcomes
	if len(r.TradeSummary.ResultCounts) > 0 {
		sb.WriteString("## Trade Outcomes\n\n")
		sb.WriteString("| Result | Count |\n")
		sb.WriteString("|--------|-------|\n")
		for _, row := range r.TradeSummary.ResultCounts {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", row.Code, row.Count))
		}
		sb.WriteString("\n")
	}

	// Performance Metrics
	sb.WriteString("## Performance Metrics\n\n")
	if m := r.Metrics; m != nil {
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Win Rate | %.2f%% (%d/%d) |\n", m.WinRate, m.Winners, m.TotalTrades))
		sb.WriteString(fmt.Sprintf("| Total P&L / share | %.4f |\n", m.TotalPnL))
		sb.WriteString(fmt.Sprintf("| Avg Win | %.4f |\n", m.AvgWin))
		sb.WriteString(fmt.Sprintf("| Avg Loss | %.4f |\n", m.AvgLoss))
		sb.WriteString(fmt.Sprintf("| Profit Factor | %.4f |\n", m.ProfitFactor))
		sb.WriteString(fmt.Sprintf("| Sharpe (ann.) | %.4f |\n", m.Sharpe))
		sb.WriteString(fmt.Sprintf("| Sortino (ann.) | %.4f |\n", m.Sortino))
		sb.WriteString(fmt.Sprintf("| Max Drawdown | %.4f |\n", m.MaxDrawdown))
		sb.WriteString(fmt.Sprintf("| Calmar | %.4f |\n", m.Calmar))
		sb.WriteString(fmt.Sprintf("| t-stat | %.4f |\n", m.TStat))
		sb.WriteString(fmt.Sprintf("| p-value | %.4f |\n", m.PValue))
		sb.WriteString(fmt.Sprintf("| Profitable Months | %d/%d |\n", m.ProfitableMonths, m.TotalMonths))
		sb.WriteString(fmt.Sprintf("| Best Month | %.4f |\n", m.BestMonth))
		sb.WriteString(fmt.Sprintf("| Worst Month | %.4f |\n", m.WorstMonth))
		sb.WriteString(fmt.Sprintf("| Win Rate 95%% CI | [%.2f, %.2f] |\n", m.WinRateCI.Lower, m.WinRateCI.Upper))
		sb.WriteString(fmt.Sprintf("| Sharpe 95%% CI | [%.4f, %.4f] |\n", m.SharpeCI.Lower, m.SharpeCI.Upper))
	} else {
		sb.WriteString("No tradable trades; metrics unavailable.\n")
	}
	sb.WriteString("\n")

	// Validation
	sb.WriteString("## Validation\n\n")
	if d := r.Decision; d != nil {
		sb.WriteString(fmt.Sprintf("Verdict: **%s** (%d/%d criteria)\n\n",
			d.Verdict, d.ChecksPassed, len(d.Criteria)))
		sb.WriteString("| # | Criterion | Threshold | Actual | Pass |\n")
		sb.WriteString("|---|-----------|-----------|--------|------|\n")
		for i, c := range d.Criteria {
			status := "FAIL"
			if c.Pass {
				status = "PASS"
			}
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
				i+1, c.Name, c.Threshold, c.Actual, status))
		}
	} else {
		sb.WriteString(fmt.Sprintf("Verdict: **%s**. No criteria evaluated without trades.\n", r.Verdict))
	}
	sb.WriteString("\n")

	return sb.String()
}
