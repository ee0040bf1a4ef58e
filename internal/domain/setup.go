package domain

// EntryKind distinguishes how a setup's entry is triggered during replay.
type EntryKind string

const (
	// EntryAtBar fills at the close of a pre-matched bar index.
	EntryAtBar EntryKind = "AT_BAR"
	// EntryBuyStop scans forward for a bar whose high crosses a level.
	EntryBuyStop EntryKind = "BUY_STOP"
)

// StrategySetup is an immutable trade proposal produced by a signal
// generator for one (ticker, day). The simulator replays it against the
// day's bars without mutating it.
type StrategySetup struct {
	StrategyTag string
	Kind        EntryKind

	// AT_BAR fields
	EntryBar int // index of the bar whose close is the fill

	// BUY_STOP fields
	Level    float64 // crossing level compared against bar highs
	Strict   bool    // true: fill requires high > Level; false: high >= Level
	ScanFrom int     // first bar index eligible to trigger

	Entry   float64 // fill price once triggered
	Stop    float64
	Target1 float64 // sole target when Scaled is false
	Target2 float64 // final target for scaled setups
	Scaled  bool    // half off at Target1, stop to breakeven, rest at Target2

	MaxHoldBars int     // 0 disables the time exit
	GapPct      float64 // overnight gap at the day's open, percent
}
