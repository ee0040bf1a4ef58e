package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeTradeID computes a deterministic trade_id using SHA256.
// Formula: SHA256(ticker|day|strategy_tag|result)
// Returns hex-encoded hash (64 characters).
func ComputeTradeID(
	ticker string,
	day int64,
	strategyTag string,
	result string,
) string {
	data := fmt.Sprintf("%s|%d|%s|%s",
		ticker,
		day,
		strategyTag,
		result,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// ComputeRunID computes a deterministic run_id using SHA256.
// Formula: SHA256(strategy_tag|started_at|ticker,ticker,...)
// Returns hex-encoded hash (64 characters).
func ComputeRunID(
	strategyTag string,
	startedAt int64,
	tickers []string,
) string {
	universe := ""
	for i, t := range tickers {
		if i > 0 {
			universe += ","
		}
		universe += t
	}
	data := fmt.Sprintf("%s|%d|%s", strategyTag, startedAt, universe)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
