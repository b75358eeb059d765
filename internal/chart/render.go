package chart

import (
	"fmt"
	"math"

	"github.com/alejandrodnm/tradesim/internal/domain"
)

// Renderer turns a Window into an ordered primitive list. It holds only
// geometry and colors: every call produces a complete frame from scratch,
// replacing whatever was drawn before.
type Renderer struct {
	Width       int // chart area width in pixels
	Height      int // chart area height in pixels
	CandleWidth int // candle body width
	CandleStep  int // horizontal advance per candle (width + gap)
	GridHLines  int // horizontal grid divisions, each labeled with its price
	GridVLines  int // vertical grid divisions, decorative
	Palette     Palette
}

// NewRenderer builds a renderer with the given geometry and palette.
func NewRenderer(width, height, candleWidth, candleStep, gridH, gridV int, p Palette) Renderer {
	return Renderer{
		Width:       width,
		Height:      height,
		CandleWidth: candleWidth,
		CandleStep:  candleStep,
		GridHLines:  gridH,
		GridVLines:  gridV,
		Palette:     p,
	}
}

// Frame renders the window: grid and price labels first, then one wick line
// and one body rect per candle left to right, then the axis min/max labels.
// An empty window renders to nothing.
func (r Renderer) Frame(w Window) []Primitive {
	if w.Empty() {
		return nil
	}

	prims := r.grid(w.Top, w.Bottom)

	x := 0
	for _, c := range w.Candles {
		prims = append(prims, r.candle(c, x, w.Top, w.Bottom)...)
		x += r.CandleStep
	}

	prims = append(prims,
		text(8, 10, r.Palette.AxisText, fmt.Sprintf("Max: %.2f", w.Top)),
		text(8, float64(r.Height)-24, r.Palette.AxisText, fmt.Sprintf("Min: %.2f", w.Bottom)),
	)
	return prims
}

// Y maps a price to a vertical pixel: higher price, smaller y.
// Y(top) == 0 and Y(bottom) == Height exactly.
func (r Renderer) Y(price, top, bottom float64) float64 {
	h := float64(r.Height)
	return h - (price-bottom)/(top-bottom)*h
}

// PriceAt inverts Y: the price a horizontal grid line at pixel y labels.
func (r Renderer) PriceAt(y, top, bottom float64) float64 {
	return top - (top-bottom)*(y/float64(r.Height))
}

func (r Renderer) candle(c domain.Candle, x int, top, bottom float64) []Primitive {
	color := r.Palette.Up
	if c.Direction() == domain.DirectionDown {
		color = r.Palette.Down
	}

	center := float64(x + r.CandleWidth/2)
	wick := line(center, r.Y(c.High, top, bottom), center, r.Y(c.Low, top, bottom), color)

	yOpen := r.Y(c.Open, top, bottom)
	yClose := r.Y(c.Close, top, bottom)
	bodyTop := math.Min(yOpen, yClose)
	bodyBottom := math.Max(yOpen, yClose)
	if bodyBottom-bodyTop < 1 {
		// flat bars stay visible
		bodyBottom = bodyTop + 1
	}
	body := rect(float64(x), bodyTop, float64(x+r.CandleWidth), bodyBottom, color)

	return []Primitive{wick, body}
}

func (r Renderer) grid(top, bottom float64) []Primitive {
	prims := make([]Primitive, 0, 2*(r.GridHLines+1)+r.GridVLines-1)

	w := float64(r.Width)
	h := float64(r.Height)

	for i := 0; i <= r.GridHLines; i++ {
		y := float64(i) * h / float64(r.GridHLines)
		prims = append(prims,
			line(0, y, w, y, r.Palette.GridH),
			text(w-6, y+2, r.Palette.GridText, fmt.Sprintf("%.2f", r.PriceAt(y, top, bottom))),
		)
	}

	step := w / float64(r.GridVLines)
	for i := 1; i < r.GridVLines; i++ {
		x := float64(i) * step
		prims = append(prims, line(x, 0, x, h, r.Palette.GridV))
	}

	return prims
}
