package indicators

import "testing"

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	if p.VolWindow != 14 || p.DrawdownWindow != 90 || p.SharpeWindow != 14 {
		t.Fatalf("unexpected window defaults: %+v", p)
	}
	if p.ShortWindow != 7 || p.LongWindow != 30 || p.SpreadWindow != 30 {
		t.Fatalf("unexpected MA/spread defaults: %+v", p)
	}
	if p.RegimeLowerPct != 33 || p.RegimeUpperPct != 67 {
		t.Fatalf("unexpected regime percentiles: %+v", p)
	}
	if p.SpreadZBound != 2.0 || p.CrashDrawdown != -0.15 || p.CrossoverLookback != 5 {
		t.Fatalf("unexpected rule thresholds: %+v", p)
	}
	if p.TradingDaysPerYear != 252 || p.RiskFreeRate != 0 {
		t.Fatalf("unexpected rate defaults: %+v", p)
	}
}

func TestNormalizeFillsZeroes(t *testing.T) {
	p := Params{VolWindow: 20}
	if err := p.Normalize(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.VolWindow != 20 {
		t.Fatalf("explicit override must survive: %d", p.VolWindow)
	}
	if p.LongWindow != 30 || p.CrossoverLookback != 5 {
		t.Fatalf("zero fields must pick up defaults: %+v", p)
	}
}

func TestNormalizeRejectsNegativeWindows(t *testing.T) {
	cases := []struct {
		name string
		p    Params
	}{
		{"vol", Params{VolWindow: -14}},
		{"spread", Params{SpreadWindow: -3}},
		{"drawdown", Params{DrawdownWindow: -90}},
		{"sharpe", Params{SharpeWindow: -1}},
		{"short", Params{ShortWindow: -7}},
		{"long", Params{LongWindow: -30}},
		{"lookback", Params{CrossoverLookback: -5}},
		{"trading days", Params{TradingDaysPerYear: -252}},
	}
	for _, tc := range cases {
		if err := tc.p.Normalize(); err == nil {
			t.Fatalf("%s: negative value must be rejected", tc.name)
		}
	}
}

func TestNormalizeRejectsBadCombination(t *testing.T) {
	p := Params{ShortWindow: 30, LongWindow: 7}
	if err := p.Normalize(); err == nil {
		t.Fatalf("short >= long must be rejected")
	}
	q := Params{CrashDrawdown: 0.15}
	if err := q.Normalize(); err == nil {
		t.Fatalf("positive crash threshold must be rejected")
	}
}
