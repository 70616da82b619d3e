package models

// BarUpdate is a live daily candle pushed by a market stream. Confirmed marks
// the close of the trading day; unconfirmed updates overwrite the running bar.
type BarUpdate struct {
	Bar       Bar
	Confirmed bool
}
