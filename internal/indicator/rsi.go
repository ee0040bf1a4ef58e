package indicator

// RSI returns the relative strength index of the latest sample, using a
// simple rolling mean of gains and losses over period (not Wilder
// smoothing). The second return is false when closes has fewer than
// period+1 samples. All-gain windows return 100.
func RSI(closes []float64, period int) (float64, bool) {
	if len(closes) < period+1 {
		return 0, false
	}

	var gainSum, lossSum float64
	for i := len(closes) - period; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum -= delta
		}
	}

	if lossSum == 0 {
		return 100, true
	}

	rs := gainSum / lossSum
	return 100 - 100/(1+rs), true
}
