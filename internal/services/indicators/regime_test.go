package indicators

import (
	"errors"
	"testing"

	"CoinSight/internal/domain/models"
)

func TestClassifyRegimesPartition(t *testing.T) {
	vol := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	labels, th, err := ClassifyRegimes(vol, 33, 67)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if th.Lower >= th.Upper {
		t.Fatalf("thresholds not ordered: %+v", th)
	}
	last := models.RegimeLow
	order := map[models.RegimeLabel]int{models.RegimeLow: 0, models.RegimeNormal: 1, models.RegimeHigh: 2}
	counts := map[models.RegimeLabel]int{}
	for i, l := range labels {
		counts[l]++
		if order[l] < order[last] {
			t.Fatalf("labels not monotone at %d: %v after %v", i, l, last)
		}
		last = l
		// exact boundary semantics
		switch {
		case vol[i] < th.Lower && l != models.RegimeLow:
			t.Fatalf("vol %v below lower %v labeled %v", vol[i], th.Lower, l)
		case vol[i] > th.Upper && l != models.RegimeHigh:
			t.Fatalf("vol %v above upper %v labeled %v", vol[i], th.Upper, l)
		case vol[i] >= th.Lower && vol[i] <= th.Upper && l != models.RegimeNormal:
			t.Fatalf("vol %v inside [%v,%v] labeled %v", vol[i], th.Lower, th.Upper, l)
		}
	}
	for _, want := range []models.RegimeLabel{models.RegimeLow, models.RegimeNormal, models.RegimeHigh} {
		if counts[want] == 0 {
			t.Fatalf("no %v labels assigned", want)
		}
	}
}

func TestClassifyRegimesUndefinedInputs(t *testing.T) {
	vol := []float64{Undefined, Undefined, 1, 2, 3}
	labels, _, err := ClassifyRegimes(vol, 33, 67)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if labels[0] != "" || labels[1] != "" {
		t.Fatalf("undefined volatility must keep the empty label, got %v %v", labels[0], labels[1])
	}
}

func TestClassifyRegimesDegenerate(t *testing.T) {
	vol := []float64{0.2, 0.2, 0.2, 0.2}
	labels, _, err := ClassifyRegimes(vol, 33, 67)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, l := range labels {
		if l != models.RegimeNormal {
			t.Fatalf("degenerate history must collapse to NORMAL, labels[%d]=%v", i, l)
		}
	}
}

func TestClassifyRegimesEmpty(t *testing.T) {
	if _, _, err := ClassifyRegimes([]float64{Undefined, Undefined}, 33, 67); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
	if _, _, err := ClassifyRegimes(nil, 33, 67); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}
