package indicators

import (
	"fmt"
	"sort"
	"time"

	"CoinSight/internal/domain/models"
)

// AnalyzeSpread z-scores the difference between two dated return series over
// their common date intersection. The z-score at each index uses the mean and
// sample standard deviation (Bessel's correction) of the spread over the
// trailing window; it is Undefined while the window is unfilled or when the
// window standard deviation is zero.
// An empty intersection is a structural failure, not an undefined value.
func AnalyzeSpread(pairSymbol string, a, b DatedSeries, window int, bound float64) (*models.SpreadSnapshot, error) {
	dates, spread := innerJoinDiff(a, b)
	if len(dates) == 0 {
		return nil, fmt.Errorf("%w: no common dates between series", ErrMisalignedSeries)
	}

	z := undefinedSlice(len(spread))
	for i := window - 1; i < len(spread); i++ {
		win := spread[i-window+1 : i+1]
		std := sampleStd(win)
		if std == 0 {
			continue
		}
		z[i] = (spread[i] - mean(win)) / std
	}

	snap := &models.SpreadSnapshot{
		PairSymbol: pairSymbol,
		Dates:      dates,
		ZScores:    z,
		Latest:     LastDefined(z),
	}
	if Defined(snap.Latest) {
		snap.Label = SpreadLabelFor(snap.Latest, bound)
	}
	return snap, nil
}

// SpreadLabelFor qualifies a z-score against the configured extremes.
func SpreadLabelFor(z, bound float64) models.SpreadLabel {
	switch {
	case z > bound:
		return models.SpreadStretchedHigh
	case z < -bound:
		return models.SpreadStretchedLow
	default:
		return models.SpreadNormal
	}
}

// innerJoinDiff aligns two dated series on their date intersection and
// returns a[i]-b[i] in ascending date order.
func innerJoinDiff(a, b DatedSeries) ([]time.Time, []float64) {
	bv := make(map[time.Time]float64, len(b.Dates))
	for i, d := range b.Dates {
		bv[d] = b.Values[i]
	}
	type row struct {
		date time.Time
		diff float64
	}
	rows := make([]row, 0, len(a.Dates))
	for i, d := range a.Dates {
		if v, ok := bv[d]; ok {
			rows = append(rows, row{date: d, diff: a.Values[i] - v})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].date.Before(rows[j].date) })

	dates := make([]time.Time, len(rows))
	diff := make([]float64, len(rows))
	for i, r := range rows {
		dates[i] = r.date
		diff[i] = r.diff
	}
	return dates, diff
}
