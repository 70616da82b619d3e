package indicators

import (
	"fmt"

	"github.com/creasty/defaults"
)

// Params names every window and threshold the engine uses. Nothing in the
// engine hardcodes these; all are overridable per invocation.
type Params struct {
	VolWindow      int `yaml:"vol_window" default:"14" validate:"gte=2"`
	DrawdownWindow int `yaml:"drawdown_window" default:"90" validate:"gte=1"`
	SharpeWindow   int `yaml:"sharpe_window" default:"14" validate:"gte=1"`
	SpreadWindow   int `yaml:"spread_window" default:"30" validate:"gte=2"`
	ShortWindow    int `yaml:"short_window" default:"7" validate:"gte=1"`
	LongWindow     int `yaml:"long_window" default:"30" validate:"gte=2"`

	RegimeLowerPct float64 `yaml:"regime_lower_pct" default:"33" validate:"gt=0,lt=100"`
	RegimeUpperPct float64 `yaml:"regime_upper_pct" default:"67" validate:"gt=0,lt=100"`

	SpreadZBound       float64 `yaml:"spread_z_bound" default:"2.0" validate:"gt=0"`
	CrashDrawdown      float64 `yaml:"crash_drawdown" default:"-0.15" validate:"lt=0"`
	CrossoverLookback  int     `yaml:"crossover_lookback" default:"5" validate:"gte=1"`
	RiskFreeRate       float64 `yaml:"risk_free_rate" default:"0"`
	TradingDaysPerYear float64 `yaml:"trading_days_per_year" default:"252" validate:"gt=0"`
}

// DefaultParams returns the documented default parameter set.
func DefaultParams() Params {
	var p Params
	_ = defaults.Set(&p)
	return p
}

// Normalize fills zero-valued fields with defaults and sanity-checks the
// combination. Windows are taken as given otherwise; the engine never
// substitutes a shorter window on its own.
func (p *Params) Normalize() error {
	d := DefaultParams()
	if p.VolWindow == 0 {
		p.VolWindow = d.VolWindow
	}
	if p.DrawdownWindow == 0 {
		p.DrawdownWindow = d.DrawdownWindow
	}
	if p.SharpeWindow == 0 {
		p.SharpeWindow = d.SharpeWindow
	}
	if p.SpreadWindow == 0 {
		p.SpreadWindow = d.SpreadWindow
	}
	if p.ShortWindow == 0 {
		p.ShortWindow = d.ShortWindow
	}
	if p.LongWindow == 0 {
		p.LongWindow = d.LongWindow
	}
	if p.RegimeLowerPct == 0 {
		p.RegimeLowerPct = d.RegimeLowerPct
	}
	if p.RegimeUpperPct == 0 {
		p.RegimeUpperPct = d.RegimeUpperPct
	}
	if p.SpreadZBound == 0 {
		p.SpreadZBound = d.SpreadZBound
	}
	if p.CrashDrawdown == 0 {
		p.CrashDrawdown = d.CrashDrawdown
	}
	if p.CrossoverLookback == 0 {
		p.CrossoverLookback = d.CrossoverLookback
	}
	if p.TradingDaysPerYear == 0 {
		p.TradingDaysPerYear = d.TradingDaysPerYear
	}

	if p.VolWindow < 2 {
		return fmt.Errorf("vol_window must be >= 2, got %d", p.VolWindow)
	}
	if p.SpreadWindow < 2 {
		return fmt.Errorf("spread_window must be >= 2, got %d", p.SpreadWindow)
	}
	if p.DrawdownWindow < 1 {
		return fmt.Errorf("drawdown_window must be >= 1, got %d", p.DrawdownWindow)
	}
	if p.SharpeWindow < 1 {
		return fmt.Errorf("sharpe_window must be >= 1, got %d", p.SharpeWindow)
	}
	if p.ShortWindow < 1 {
		return fmt.Errorf("short_window must be >= 1, got %d", p.ShortWindow)
	}
	if p.LongWindow < 2 {
		return fmt.Errorf("long_window must be >= 2, got %d", p.LongWindow)
	}
	if p.CrossoverLookback < 1 {
		return fmt.Errorf("crossover_lookback must be >= 1, got %d", p.CrossoverLookback)
	}
	if p.TradingDaysPerYear <= 0 {
		return fmt.Errorf("trading_days_per_year must be positive, got %.1f", p.TradingDaysPerYear)
	}
	if p.ShortWindow >= p.LongWindow {
		return fmt.Errorf("short_window %d must be below long_window %d", p.ShortWindow, p.LongWindow)
	}
	if p.RegimeLowerPct >= p.RegimeUpperPct {
		return fmt.Errorf("regime_lower_pct %.1f must be below regime_upper_pct %.1f", p.RegimeLowerPct, p.RegimeUpperPct)
	}
	if p.CrashDrawdown >= 0 {
		return fmt.Errorf("crash_drawdown must be negative, got %.3f", p.CrashDrawdown)
	}
	return nil
}
