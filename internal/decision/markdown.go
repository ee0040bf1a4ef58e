package decision

import (
	"fmt"
	"strings"

	"gap-trade-lab/internal/domain"
)

// RenderMarkdown renders a Result as a Markdown string.
func RenderMarkdown(result *Result) string {
	var sb strings.Builder

	sb.WriteString("# Validation Verdict\n\n")
	sb.WriteString(fmt.Sprintf("## Verdict: %s (%d/%d criteria)\n\n",
		result.Verdict, result.ChecksPassed, len(result.Criteria)))

	sb.WriteString("| # | Criterion | Threshold | Actual | Pass |\n")
	sb.WriteString("|---|-----------|-----------|--------|------|\n")
	for i, c := range result.Criteria {
		passStr := "PASS"
		if !c.Pass {
			passStr = "FAIL"
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
			i+1, c.Name, c.Threshold, c.Actual, passStr))
	}
	sb.WriteString("\n")

	if result.Verdict == domain.VerdictPass && result.ChecksPassed < len(result.Criteria) {
		sb.WriteString("Borderline pass. Failed criteria:\n")
		for _, c := range result.Criteria {
			if !c.Pass {
				sb.WriteString(fmt.Sprintf("- %s (actual: %s)\n", c.Name, c.Actual))
			}
		}
	}

	return sb.String()
}
