package models

// Requests for the analysis HTTP endpoints. Defined in domain for consistency and reuse.

type AnalysisRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	Pair   string `query:"pair" json:"pair" validate:"omitempty,nefield=Symbol"`
	Days   int    `query:"days" json:"days" default:"365" validate:"gte=2,lte=5000"`
	Force  bool   `query:"force" json:"force"`

	// Engine window overrides; zero means the configured default.
	VolWindow    int `query:"vol_window" json:"vol_window" validate:"gte=0,lte=1000"`
	SharpeWindow int `query:"sharpe_window" json:"sharpe_window" validate:"gte=0,lte=1000"`
	ShortWindow  int `query:"short_window" json:"short_window" validate:"gte=0,lte=1000"`
	LongWindow   int `query:"long_window" json:"long_window" validate:"gte=0,lte=1000"`
}

type BarsRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	Days   int    `query:"days" json:"days" default:"365" validate:"gte=1,lte=5000"`
	// From/To accept RFC3339 or unix seconds and take precedence over Days.
	From  string `query:"from" json:"from"`
	To    string `query:"to" json:"to"`
	Force bool   `query:"force" json:"force"`
}

type ForecastRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	Days   int    `query:"days" json:"days" default:"365" validate:"gte=60,lte=5000"`
	Steps  int    `query:"steps" json:"steps" default:"7" validate:"gte=1,lte=90"`
}

type ReportsRequest struct {
	Symbol string `json:"symbol" validate:"required"`
	Pair   string `json:"pair" validate:"omitempty,nefield=Symbol"`
	Days   int    `json:"days" default:"365" validate:"gte=2,lte=5000"`
}

type CorrelationRequest struct {
	Symbols []string `query:"symbols" json:"symbols" validate:"required,min=2,dive,required"`
	Days    int      `query:"days" json:"days" default:"365" validate:"gte=2,lte=5000"`
}
