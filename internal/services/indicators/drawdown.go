package indicators

// Drawdowns computes, per index, the decline from the running peak over a
// trailing window of at most `window` observations, and the rolling maximum
// drawdown (the most negative drawdown) over the same window.
// Both are fractions <= 0; a single-point window yields 0.
func Drawdowns(closes []float64, window int) (drawdown, maxDrawdown []float64) {
	n := len(closes)
	drawdown = make([]float64, n)
	maxDrawdown = make([]float64, n)
	for i := 0; i < n; i++ {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		peak := closes[start]
		for j := start + 1; j <= i; j++ {
			if closes[j] > peak {
				peak = closes[j]
			}
		}
		drawdown[i] = closes[i]/peak - 1

		worst := 0.0
		for j := start; j <= i; j++ {
			if drawdown[j] < worst {
				worst = drawdown[j]
			}
		}
		maxDrawdown[i] = worst
	}
	return drawdown, maxDrawdown
}
