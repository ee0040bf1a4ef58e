package domain

// ConfidenceInterval is a two-sided bootstrap interval.
type ConfidenceInterval struct {
	Lower float64
	Upper float64
}

// BacktestMetrics aggregates the statistical profile of a trade log.
// All P&L figures are per share. Computed once over the tradable trades
// of a run; zero-valued fallbacks replace undefined statistics so the
// struct never carries NaN.
type BacktestMetrics struct {
	TotalTrades int
	Winners     int
	Losers      int
	WinRate     float64 // percent
	TotalPnL    float64
	AvgWin      float64
	AvgLoss     float64

	ProfitFactor float64 // |sum of wins / sum of losses|, 0 when no losers
	Sharpe       float64 // annualized, sqrt(252)
	Sortino      float64
	MaxDrawdown  float64 // <= 0
	Calmar       float64

	TStat       float64
	PValue      float64
	Significant bool // two-sided p < 0.05

	ProfitableMonths int
	TotalMonths      int
	BestMonth        float64
	WorstMonth       float64

	WinRateCI ConfidenceInterval // bootstrap 95%
	SharpeCI  ConfidenceInterval // bootstrap 95%
}
