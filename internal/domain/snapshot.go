package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TickSnapshot is the state of the simulation after one tick, handed to the
// presentation layer. String-free decimals keep balance display exact.
type TickSnapshot struct {
	Tick   int
	Symbol string
	Price  float64
	Candle Candle
	Quote  decimal.Decimal
	Base   decimal.Decimal
	Equity decimal.Decimal
	At     time.Time
}
