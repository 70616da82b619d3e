package indicators

import (
	"time"

	"CoinSight/internal/domain/models"
)

// CrossoverAnalysis bundles the moving averages, the per-index trend state,
// and the ordered crossover events detected on one close series.
type CrossoverAnalysis struct {
	Short  []float64
	Long   []float64
	Trend  []models.TrendState
	Events []models.CrossoverEvent
}

// SMA computes the simple moving average; the first window-1 entries are
// Undefined.
func SMA(values []float64, window int) []float64 {
	out := undefinedSlice(len(values))
	if window < 1 || len(values) < window {
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// DetectCrossovers computes short/long SMAs, classifies the trend per index
// (BULL when close is above the long MA, BEAR below, NEUTRAL on equality or
// while the long MA is undefined) and collects golden/death crosses.
//
// Tie-break: equality of the two averages counts as "not yet crossed"; an
// event fires only once strict inequality is observed on the other side, so
// floating-point ties never double-count.
func DetectCrossovers(dates []time.Time, closes []float64, shortWindow, longWindow int) CrossoverAnalysis {
	res := CrossoverAnalysis{
		Short: SMA(closes, shortWindow),
		Long:  SMA(closes, longWindow),
		Trend: make([]models.TrendState, len(closes)),
	}
	for i := range closes {
		switch {
		case !Defined(res.Long[i]) || closes[i] == res.Long[i]:
			res.Trend[i] = models.TrendNeutral
		case closes[i] > res.Long[i]:
			res.Trend[i] = models.TrendBull
		default:
			res.Trend[i] = models.TrendBear
		}
	}

	// side tracks the last strictly-held relation between the averages; a
	// tie never flips it. An event fires when a strict relation differs from
	// the previous strict relation, or when the series leaves an initial tie.
	const (
		sideNone = iota
		sideAbove
		sideBelow
	)
	side := sideNone
	sawTie := false
	for i := range closes {
		if !Defined(res.Short[i]) || !Defined(res.Long[i]) {
			continue
		}
		if res.Short[i] == res.Long[i] {
			sawTie = true
			continue
		}
		now := sideBelow
		if res.Short[i] > res.Long[i] {
			now = sideAbove
		}
		crossed := (side != sideNone && now != side) || (side == sideNone && sawTie)
		if crossed {
			kind := models.GoldenCross
			if now == sideBelow {
				kind = models.DeathCross
			}
			res.Events = append(res.Events, models.CrossoverEvent{Index: i, Date: dates[i], Kind: kind})
		}
		side = now
	}
	return res
}
