package indicators

// RollingSharpe computes the trailing annualized Sharpe ratio: the window
// mean of daily returns in excess of the per-day risk-free rate, divided by
// the (annualized) rolling volatility at the same index, scaled back to a
// yearly figure. Undefined wherever the mean window is unfilled or the
// volatility is undefined or zero; a flat market is legitimate, not an error.
func RollingSharpe(returns, vol []float64, window int, riskFreeRate, tradingDaysPerYear float64) []float64 {
	n := len(returns)
	out := undefinedSlice(n)
	if window < 1 || n < window || len(vol) != n {
		return out
	}
	for i := window - 1; i < n; i++ {
		if !Defined(vol[i]) || vol[i] == 0 {
			continue
		}
		excess := mean(returns[i-window+1:i+1]) - riskFreeRate/tradingDaysPerYear
		out[i] = excess * tradingDaysPerYear / vol[i]
	}
	return out
}
