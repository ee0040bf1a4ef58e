package domain

import "time"

// ResultCode classifies the terminal state of a simulated (ticker, day)
// attempt. The first three are skip codes: the day produced no position.
type ResultCode string

// Result code constants.
const (
	ResultNoTrend    ResultCode = "no_trend"     // local trend gate refused the day
	ResultBadGapSize ResultCode = "bad_gap_size" // gap outside the tradable band
	ResultNoEntry    ResultCode = "no_entry"     // entry condition never matched
	ResultStoppedOut ResultCode = "stopped_out"  // stop price touched
	ResultTimeExit   ResultCode = "time_exit"    // held too long with no progress
	ResultFullTarget ResultCode = "full_target"  // final profit target reached
	ResultEODExit    ResultCode = "eod_exit"     // position flattened at the last bar
)

// Tradable reports whether the code represents a realized position.
// Skip codes are retained for gap-frequency diagnostics but excluded
// from performance statistics.
func (c ResultCode) Tradable() bool {
	switch c {
	case ResultStoppedOut, ResultTimeExit, ResultFullTarget, ResultEODExit:
		return true
	}
	return false
}

// String returns the string representation of the result code.
func (c ResultCode) String() string {
	return string(c)
}

// SimulatedTrade is the realized outcome of replaying one StrategySetup
// against one DaySeries. Created once per (ticker, day) pair that reaches
// a terminal state; immutable after creation.
//
// Only the fields meaningful to the result code are populated: skip codes
// carry ticker, day, strategy tag and gap percentage, with all execution
// fields zero.
type SimulatedTrade struct {
	TradeID     string     // deterministic hash
	Ticker      string     // equity symbol
	Day         time.Time  // trading day (midnight UTC)
	StrategyTag string     // generator identifier
	Result      ResultCode // terminal state
	GapPct      float64    // open-vs-prior-close gap, percent

	// Execution (tradable results only)
	Entry          float64 // fill price
	Exit           float64 // final exit price
	PnLPerShare    float64 // realized P&L per share
	Win            bool    // PnLPerShare > 0
	BarsHeld       int     // bars from entry to exit
	FirstTargetHit bool    // scaled setups: first target banked
}

// NewSkip builds a no-position outcome for a skip code.
func NewSkip(ticker string, day time.Time, tag string, code ResultCode, gapPct float64) *SimulatedTrade {
	return &SimulatedTrade{
		Ticker:      ticker,
		Day:         day,
		StrategyTag: tag,
		Result:      code,
		GapPct:      gapPct,
	}
}
