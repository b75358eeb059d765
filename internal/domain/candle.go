package domain

import (
	"math"
	"math/rand"
)

// Direction tags a candle as rising or falling. It is derived from the
// open/close comparison and never stored separately from it.
type Direction int

const (
	DirectionUp Direction = iota
	DirectionDown
)

func (d Direction) String() string {
	if d == DirectionUp {
		return "up"
	}
	return "down"
}

// Candle is one OHLC bar. Immutable once appended to a History.
// Invariant: Low ≤ min(Open, Close) ≤ max(Open, Close) ≤ High.
type Candle struct {
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// Direction reports whether the candle closed at or above its open.
func (c Candle) Direction() Direction {
	if c.Close >= c.Open {
		return DirectionUp
	}
	return DirectionDown
}

// History is the append-only, chronological candle sequence for one run.
// It grows unbounded; the chart only ever reads the tail.
type History struct {
	candles []Candle
}

// Len returns the number of candles appended so far.
func (h *History) Len() int {
	return len(h.candles)
}

// All returns the full chronological sequence. Callers must not mutate it.
func (h *History) All() []Candle {
	return h.candles
}

// Last returns the most recent candle, if any.
func (h *History) Last() (Candle, bool) {
	if len(h.candles) == 0 {
		return Candle{}, false
	}
	return h.candles[len(h.candles)-1], true
}

const (
	// openJitter bounds the uniform noise applied to the very first open,
	// so the session does not start with a zero-range bar.
	openJitter = 0.001
	// wickSigma is the stddev of the gaussian wick noise applied to
	// high/low, independent of the open/close body.
	wickSigma = 0.0015
)

// Aggregator builds one candle per tick from the latest price.
type Aggregator struct {
	rng *rand.Rand
}

// NewAggregator creates an aggregator with its own wick-noise source.
func NewAggregator(seed int64) *Aggregator {
	return &Aggregator{rng: rand.New(rand.NewSource(seed))}
}

// Append builds the candle for the given close price and appends it to h.
//
// The open is the previous close (or the price plus a small uniform jitter
// for the first candle). High and low take gaussian wick noise derived from
// the pre-rounding open/close; after rounding to cents they are clamped to
// the rounded body so the OHLC invariant survives rounding drift.
func (a *Aggregator) Append(h *History, price float64) Candle {
	var open float64
	if last, ok := h.Last(); ok {
		open = last.Close
	} else {
		open = price * (1 + (a.rng.Float64()*2-1)*openJitter)
	}
	close := price

	high := math.Max(open, close) * (1 + math.Abs(a.rng.NormFloat64()*wickSigma))
	low := math.Min(open, close) * (1 - math.Abs(a.rng.NormFloat64()*wickSigma))

	c := Candle{
		Open:  roundCents(open),
		High:  roundCents(high),
		Low:   roundCents(low),
		Close: roundCents(close),
	}

	// Rounding can pull a wick a cent inside the rounded body.
	if body := math.Max(c.Open, c.Close); c.High < body {
		c.High = body
	}
	if body := math.Min(c.Open, c.Close); c.Low > body {
		c.Low = body
	}

	h.candles = append(h.candles, c)
	return c
}
