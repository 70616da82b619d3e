package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidBar marks an OHLCV row that violates its structural invariants.
// Validation runs at ingestion, before any series reaches the engine.
var ErrInvalidBar = errors.New("invalid bar")

// Bar is one OHLCV observation for one calendar date.
type Bar struct {
	Date   time.Time
	Symbol string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Validate checks the OHLC ordering invariant and value ranges.
func (b Bar) Validate() error {
	for name, v := range map[string]float64{
		"open": b.Open, "high": b.High, "low": b.Low, "close": b.Close,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("%w: %s=%v on %s", ErrInvalidBar, name, v, b.Date.Format("2006-01-02"))
		}
	}
	if math.IsNaN(b.Volume) || math.IsInf(b.Volume, 0) || b.Volume < 0 {
		return fmt.Errorf("%w: volume=%v on %s", ErrInvalidBar, b.Volume, b.Date.Format("2006-01-02"))
	}
	lo := math.Min(b.Open, b.Close)
	hi := math.Max(b.Open, b.Close)
	if b.Low > lo || hi > b.High {
		return fmt.Errorf("%w: ohlc ordering %v/%v/%v/%v on %s",
			ErrInvalidBar, b.Open, b.High, b.Low, b.Close, b.Date.Format("2006-01-02"))
	}
	return nil
}

// ValidateBars validates every bar and the series-level invariants:
// strictly increasing dates, no duplicates.
func ValidateBars(bars []Bar) error {
	for i, b := range bars {
		if err := b.Validate(); err != nil {
			return err
		}
		if i == 0 {
			continue
		}
		if !bars[i-1].Date.Before(b.Date) {
			return fmt.Errorf("%w: dates not strictly increasing at %s",
				ErrInvalidBar, b.Date.Format("2006-01-02"))
		}
	}
	return nil
}

// Closes extracts the close price column.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Dates extracts the date column.
func Dates(bars []Bar) []time.Time {
	out := make([]time.Time, len(bars))
	for i, b := range bars {
		out[i] = b.Date
	}
	return out
}
