package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders the trade log as a CSV string.
func RenderCSV(trades []TradeRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("trade_id,ticker,day,result,gap_pct,entry,exit,")
	sb.WriteString("pnl_per_share,win,bars_held,first_target_hit\n")

	// Rows
	for _, t := range trades {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%.4f,%.4f,%.4f,%.4f,%t,%d,%t\n",
			t.TradeID,
			t.Ticker,
			t.Day.Format("2006-01-02"),
			t.Result,
			t.GapPct,
			t.Entry,
			t.Exit,
			t.PnLPerShare,
			t.Win,
			t.BarsHeld,
			t.FirstTargetHit,
		))
	}

	return sb.String()
}
