package domain

import (
	"math"
	"math/rand"
)

// priceFloor keeps the walk from ever reaching zero or going negative.
const priceFloor = 1.0

// Walk generates the next price from the current one via a bounded random
// walk: the percentage change per step is drawn from Normal(Drift, Volatility).
type Walk struct {
	drift      float64
	volatility float64
	rng        *rand.Rand
}

// NewWalk creates a price process with its own random source.
func NewWalk(drift, volatility float64, seed int64) *Walk {
	return &Walk{
		drift:      drift,
		volatility: volatility,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// Next advances the walk one step. The result is floored at 1.0 and rounded
// to cents, so it is always a positive well-formed price.
func (w *Walk) Next(current float64) float64 {
	pct := w.rng.NormFloat64()*w.volatility + w.drift
	next := current * (1.0 + pct)
	if next < priceFloor {
		next = priceFloor
	}
	return roundCents(next)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
