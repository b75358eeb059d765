package chart

import (
	"github.com/alejandrodnm/tradesim/internal/domain"
)

const (
	// paddingRatio is the share of the visible price range added above and
	// below so candles never touch the chart edges.
	paddingRatio = 0.10
	// minPadding guarantees a nonzero vertical span even for a flat series.
	minPadding = 1.0
	// minBottom keeps the lower bound above zero so the price-to-pixel
	// mapping never divides by it.
	minBottom = 0.1
)

// Window is the slice of history that fits the chart plus its vertical
// price bounds. It is recomputed from scratch every tick.
type Window struct {
	Candles []domain.Candle // chronological, most recent rightmost
	Top     float64
	Bottom  float64
}

// Empty reports whether there is nothing to draw.
func (w Window) Empty() bool {
	return len(w.Candles) == 0
}

// ComputeWindow selects the most recent candles that fit pixelWidth at
// stepPx per candle and derives the padded top/bottom price bounds.
//
// With at least one candle the result always satisfies Top > Bottom > 0,
// which is what lets the renderer map prices to pixels unconditionally.
func ComputeWindow(candles []domain.Candle, pixelWidth, stepPx int) Window {
	maxVisible := 1
	if stepPx > 0 && pixelWidth/stepPx > 1 {
		maxVisible = pixelWidth / stepPx
	}

	if len(candles) > maxVisible {
		candles = candles[len(candles)-maxVisible:]
	}
	if len(candles) == 0 {
		return Window{}
	}

	hi := candles[0].High
	lo := candles[0].Low
	for _, c := range candles[1:] {
		if c.High > hi {
			hi = c.High
		}
		if c.Low < lo {
			lo = c.Low
		}
	}

	padding := (hi - lo) * paddingRatio
	if padding < minPadding {
		padding = minPadding
	}

	bottom := lo - padding
	if bottom < minBottom {
		bottom = minBottom
	}

	return Window{
		Candles: candles,
		Top:     hi + padding,
		Bottom:  bottom,
	}
}
