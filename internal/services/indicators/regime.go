package indicators

import (
	"fmt"
	"math"
	"sort"

	"CoinSight/internal/domain/models"
)

// ClassifyRegimes buckets a rolling volatility series into LOW/NORMAL/HIGH
// using percentile thresholds computed over the entire defined history of
// the series. Undefined inputs keep the empty label. Degenerate history
// (fewer than two distinct defined values) collapses to NORMAL everywhere.
func ClassifyRegimes(vol []float64, lowerPct, upperPct float64) ([]models.RegimeLabel, models.RegimeThresholds, error) {
	defined := make([]float64, 0, len(vol))
	for _, v := range vol {
		if Defined(v) {
			defined = append(defined, v)
		}
	}
	if len(defined) == 0 {
		return nil, models.RegimeThresholds{}, fmt.Errorf("%w: no defined volatility values", ErrInsufficientData)
	}

	labels := make([]models.RegimeLabel, len(vol))
	if distinctCount(defined) < 2 {
		th := models.RegimeThresholds{Lower: defined[0], Upper: defined[0]}
		for i, v := range vol {
			if Defined(v) {
				labels[i] = models.RegimeNormal
			}
		}
		return labels, th, nil
	}

	sorted := append([]float64(nil), defined...)
	sort.Float64s(sorted)
	th := models.RegimeThresholds{
		Lower: percentile(sorted, lowerPct),
		Upper: percentile(sorted, upperPct),
	}
	for i, v := range vol {
		switch {
		case !Defined(v):
		case v < th.Lower:
			labels[i] = models.RegimeLow
		case v > th.Upper:
			labels[i] = models.RegimeHigh
		default:
			labels[i] = models.RegimeNormal
		}
	}
	return labels, th, nil
}

// percentile computes the p-th percentile of a sorted slice using linear
// interpolation between closest ranks.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func distinctCount(xs []float64) int {
	seen := make(map[float64]struct{}, len(xs))
	for _, x := range xs {
		seen[x] = struct{}{}
	}
	return len(seen)
}
