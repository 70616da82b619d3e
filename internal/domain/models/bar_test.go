package models

import (
	"errors"
	"testing"
	"time"
)

func mkBar(day int, o, h, l, c float64) Bar {
	return Bar{
		Date:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day),
		Symbol: "BTC-USD",
		Open:   o, High: h, Low: l, Close: c,
		Volume: 100,
	}
}

func TestValidateBarOHLCInvariant(t *testing.T) {
	good := mkBar(0, 100, 110, 95, 105)
	if err := good.Validate(); err != nil {
		t.Fatalf("valid bar rejected: %v", err)
	}

	bad := mkBar(0, 100, 102, 95, 105) // close above high
	if err := bad.Validate(); !errors.Is(err, ErrInvalidBar) {
		t.Fatalf("expected ErrInvalidBar, got %v", err)
	}

	lowAbove := mkBar(0, 100, 110, 101, 105) // low above open
	if err := lowAbove.Validate(); !errors.Is(err, ErrInvalidBar) {
		t.Fatalf("expected ErrInvalidBar, got %v", err)
	}
}

func TestValidateBarRanges(t *testing.T) {
	zero := mkBar(0, 0, 110, 95, 105)
	if err := zero.Validate(); !errors.Is(err, ErrInvalidBar) {
		t.Fatalf("non-positive open must be rejected, got %v", err)
	}
	neg := mkBar(0, 100, 110, 95, 105)
	neg.Volume = -1
	if err := neg.Validate(); !errors.Is(err, ErrInvalidBar) {
		t.Fatalf("negative volume must be rejected, got %v", err)
	}
}

func TestValidateBarsDateOrdering(t *testing.T) {
	ok := []Bar{mkBar(0, 100, 110, 95, 105), mkBar(1, 105, 115, 100, 110)}
	if err := ValidateBars(ok); err != nil {
		t.Fatalf("valid series rejected: %v", err)
	}

	dup := []Bar{mkBar(0, 100, 110, 95, 105), mkBar(0, 105, 115, 100, 110)}
	if err := ValidateBars(dup); !errors.Is(err, ErrInvalidBar) {
		t.Fatalf("duplicate dates must be rejected, got %v", err)
	}

	unordered := []Bar{mkBar(1, 100, 110, 95, 105), mkBar(0, 105, 115, 100, 110)}
	if err := ValidateBars(unordered); !errors.Is(err, ErrInvalidBar) {
		t.Fatalf("unordered dates must be rejected, got %v", err)
	}
}
