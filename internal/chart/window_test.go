package chart_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/tradesim/internal/chart"
	"github.com/alejandrodnm/tradesim/internal/domain"
)

func flatCandle(price float64) domain.Candle {
	return domain.Candle{Open: price, High: price, Low: price, Close: price}
}

func TestComputeWindow_TailSelection(t *testing.T) {
	// 1450px at 16px per candle fits exactly 90 candles.
	candles := make([]domain.Candle, 1000)
	for i := range candles {
		candles[i] = flatCandle(100 + float64(i))
	}

	w := chart.ComputeWindow(candles, 1450, 16)

	require.Len(t, w.Candles, 90)
	// The most recent 90, still chronological.
	assert.Equal(t, candles[910], w.Candles[0])
	assert.Equal(t, candles[999], w.Candles[89])
}

func TestComputeWindow_ShortHistory(t *testing.T) {
	candles := []domain.Candle{flatCandle(100), flatCandle(101)}

	w := chart.ComputeWindow(candles, 1450, 16)

	assert.Len(t, w.Candles, 2)
}

func TestComputeWindow_FlatSeriesHasSpan(t *testing.T) {
	candles := make([]domain.Candle, 50)
	for i := range candles {
		candles[i] = flatCandle(100.0)
	}

	w := chart.ComputeWindow(candles, 1450, 16)

	// Minimum padding guarantees a drawable span for a zero-range series.
	assert.Greater(t, w.Top, w.Bottom)
	assert.Equal(t, 101.0, w.Top)
	assert.Equal(t, 99.0, w.Bottom)
}

func TestComputeWindow_PaddingScalesWithRange(t *testing.T) {
	candles := []domain.Candle{
		{Open: 100, High: 200, Low: 100, Close: 150},
		{Open: 150, High: 180, Low: 120, Close: 160},
	}

	w := chart.ComputeWindow(candles, 1450, 16)

	// Range 100 → padding 10.
	assert.InDelta(t, 210.0, w.Top, 1e-9)
	assert.InDelta(t, 90.0, w.Bottom, 1e-9)
}

func TestComputeWindow_BottomFloor(t *testing.T) {
	candles := []domain.Candle{flatCandle(1.0)}

	w := chart.ComputeWindow(candles, 1450, 16)

	// lo - padding would be 0 or negative; the floor keeps it above zero.
	assert.Equal(t, 0.1, w.Bottom)
	assert.Greater(t, w.Top, w.Bottom)
}

func TestComputeWindow_Empty(t *testing.T) {
	w := chart.ComputeWindow(nil, 1450, 16)

	assert.True(t, w.Empty())
	assert.Empty(t, w.Candles)
}

func TestComputeWindow_NarrowChartKeepsOne(t *testing.T) {
	candles := []domain.Candle{flatCandle(100), flatCandle(101), flatCandle(102)}

	// Chart narrower than one step still shows the latest candle.
	w := chart.ComputeWindow(candles, 10, 16)

	require.Len(t, w.Candles, 1)
	assert.Equal(t, 102.0, w.Candles[0].Close)
}
