package chart_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/tradesim/internal/chart"
	"github.com/alejandrodnm/tradesim/internal/domain"
)

func testRenderer() chart.Renderer {
	return chart.NewRenderer(1450, 560, 12, 16, 6, 8, chart.DefaultPalette())
}

func TestRenderer_EmptyWindowIsNoop(t *testing.T) {
	r := testRenderer()

	frame := r.Frame(chart.Window{})

	assert.Empty(t, frame)
}

func TestRenderer_MappingExactAtBounds(t *testing.T) {
	r := testRenderer()

	cases := []struct{ top, bottom float64 }{
		{3600, 3400},
		{101, 99},
		{2.0, 0.1},
	}
	for _, tc := range cases {
		assert.Equal(t, 0.0, r.Y(tc.top, tc.top, tc.bottom))
		assert.Equal(t, 560.0, r.Y(tc.bottom, tc.top, tc.bottom))
	}
}

func TestRenderer_MappingInverts(t *testing.T) {
	r := testRenderer()

	for _, price := range []float64{3400, 3487.5, 3600} {
		y := r.Y(price, 3600, 3400)
		assert.InDelta(t, price, r.PriceAt(y, 3600, 3400), 1e-9)
	}
}

func TestRenderer_FrameShape(t *testing.T) {
	r := testRenderer()

	candles := []domain.Candle{
		{Open: 3500, High: 3520, Low: 3490, Close: 3510},
		{Open: 3510, High: 3515, Low: 3480, Close: 3485},
	}
	w := chart.ComputeWindow(candles, 1450, 16)
	frame := r.Frame(w)

	// grid: (hlines+1) lines + (hlines+1) labels + (vlines-1) lines,
	// candles: wick + body each, axis: 2 labels.
	want := 2*(6+1) + (8 - 1) + 2*len(candles) + 2
	require.Len(t, frame, want)

	// Grid comes first so candles paint over it.
	assert.Equal(t, chart.OpLine, frame[0].Op)

	// Last two primitives are the axis labels.
	axisMax := frame[len(frame)-2]
	axisMin := frame[len(frame)-1]
	assert.Equal(t, chart.OpText, axisMax.Op)
	assert.Equal(t, fmt.Sprintf("Max: %.2f", w.Top), axisMax.Text)
	assert.Equal(t, fmt.Sprintf("Min: %.2f", w.Bottom), axisMin.Text)
}

func TestRenderer_CandleGeometry(t *testing.T) {
	r := testRenderer()

	up := domain.Candle{Open: 3500, High: 3520, Low: 3490, Close: 3510}
	down := domain.Candle{Open: 3510, High: 3515, Low: 3480, Close: 3485}
	w := chart.ComputeWindow([]domain.Candle{up, down}, 1450, 16)
	frame := r.Frame(w)

	gridCount := 2*(6+1) + (8 - 1)
	wick1, body1 := frame[gridCount], frame[gridCount+1]
	wick2, body2 := frame[gridCount+2], frame[gridCount+3]

	// First candle occupies [0,12), wick at its center.
	assert.Equal(t, chart.OpLine, wick1.Op)
	assert.Equal(t, 6.0, wick1.X1)
	assert.Equal(t, wick1.X1, wick1.X2)
	assert.Equal(t, chart.OpRect, body1.Op)
	assert.Equal(t, 0.0, body1.X1)
	assert.Equal(t, 12.0, body1.X2)

	// Second candle advanced by one step.
	assert.Equal(t, 22.0, wick2.X1)
	assert.Equal(t, 16.0, body2.X1)
	assert.Equal(t, 28.0, body2.X2)

	// Direction coloring.
	p := chart.DefaultPalette()
	assert.Equal(t, p.Up, body1.Color)
	assert.Equal(t, p.Up, wick1.Color)
	assert.Equal(t, p.Down, body2.Color)

	// Wick spans y(high)..y(low); body spans the open/close range.
	assert.Equal(t, r.Y(up.High, w.Top, w.Bottom), wick1.Y1)
	assert.Equal(t, r.Y(up.Low, w.Top, w.Bottom), wick1.Y2)
	assert.Equal(t, r.Y(up.Close, w.Top, w.Bottom), body1.Y1) // close above open
	assert.Equal(t, r.Y(up.Open, w.Top, w.Bottom), body1.Y2)
}

func TestRenderer_FlatBodyAtLeastOnePixel(t *testing.T) {
	r := testRenderer()

	flat := domain.Candle{Open: 3500, High: 3500, Low: 3500, Close: 3500}
	w := chart.ComputeWindow([]domain.Candle{flat}, 1450, 16)
	frame := r.Frame(w)

	body := frame[len(frame)-3] // before the two axis labels
	require.Equal(t, chart.OpRect, body.Op)
	assert.GreaterOrEqual(t, body.Y2-body.Y1, 1.0)
}

func TestRenderer_GridLabelsMatchMapping(t *testing.T) {
	r := testRenderer()

	candles := []domain.Candle{{Open: 3500, High: 3520, Low: 3490, Close: 3510}}
	w := chart.ComputeWindow(candles, 1450, 16)
	frame := r.Frame(w)

	// First grid pair: line at y=0 labeled with the top price.
	line, label := frame[0], frame[1]
	assert.Equal(t, 0.0, line.Y1)
	assert.Equal(t, chart.OpText, label.Op)
	assert.Equal(t, fmt.Sprintf("%.2f", w.Top), label.Text)

	// Last horizontal pair: y=height labeled with the bottom price.
	line, label = frame[12], frame[13]
	assert.Equal(t, 560.0, line.Y1)
	assert.Equal(t, fmt.Sprintf("%.2f", w.Bottom), label.Text)
}
