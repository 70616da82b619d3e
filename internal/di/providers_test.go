package di

import (
	"testing"

	"CoinSight/pkg/config"
)

func TestProvideEngineParams(t *testing.T) {
	var cfg config.Config
	cfg.Engine.VolWindow = 20
	cfg.Engine.TradingDaysPerYear = 365

	p, err := ProvideEngineParams(&cfg)
	if err != nil {
		t.Fatalf("ProvideEngineParams: %v", err)
	}
	if p.VolWindow != 20 {
		t.Fatalf("vol window = %d, want 20", p.VolWindow)
	}
	if p.TradingDaysPerYear != 365 {
		t.Fatalf("trading days = %v, want 365", p.TradingDaysPerYear)
	}
	if p.LongWindow != 30 || p.SpreadWindow != 30 {
		t.Fatalf("zero fields must pick up defaults: %+v", p)
	}
}

func TestProvideEngineParamsRejectsInvalid(t *testing.T) {
	var cfg config.Config
	cfg.Engine.SpreadWindow = -3

	if _, err := ProvideEngineParams(&cfg); err == nil {
		t.Fatal("expected error for negative spread window")
	}
}
