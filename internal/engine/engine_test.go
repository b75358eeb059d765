package engine_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/tradesim/internal/chart"
	"github.com/alejandrodnm/tradesim/internal/domain"
	"github.com/alejandrodnm/tradesim/internal/engine"
)

// capture collects everything presented, for assertions.
type capture struct {
	mu     sync.Mutex
	snaps  []domain.TickSnapshot
	frames [][]chart.Primitive
}

func (c *capture) Present(_ context.Context, snap domain.TickSnapshot, frame []chart.Primitive) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snaps = append(c.snaps, snap)
	c.frames = append(c.frames, frame)
	return nil
}

func (c *capture) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.snaps)
}

func (c *capture) last() (domain.TickSnapshot, []chart.Primitive) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snaps[len(c.snaps)-1], c.frames[len(c.frames)-1]
}

func testConfig() engine.Config {
	return engine.Config{
		TickInterval: 10 * time.Millisecond,
		Symbol:       "ETH/USD",
		InitialPrice: 3500,
		Volatility:   0.006,
		Seed:         42,
		ChartWidth:   1450,
		CandleStep:   16,
	}
}

func testRenderer() chart.Renderer {
	return chart.NewRenderer(1450, 560, 12, 16, 6, 8, chart.DefaultPalette())
}

func TestEngine_RunOnce(t *testing.T) {
	sink := &capture{}
	e := engine.New(testConfig(), domain.NewAccount(10_000, 0), testRenderer(), sink, nil)

	snap, frame, err := e.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, snap.Tick)
	assert.Equal(t, "ETH/USD", snap.Symbol)
	assert.GreaterOrEqual(t, snap.Price, 1.0)
	assert.Equal(t, snap.Price, snap.Candle.Close)
	assert.Equal(t, "10000", snap.Quote.String())
	assert.NotEmpty(t, frame)

	// The presenter saw the same tick.
	require.Equal(t, 1, sink.count())
	gotSnap, gotFrame := sink.last()
	assert.Equal(t, snap.Candle, gotSnap.Candle)
	assert.Equal(t, frame, gotFrame)
}

func TestEngine_RunOnceDeterministicWithSeed(t *testing.T) {
	a := engine.New(testConfig(), domain.NewAccount(10_000, 0), testRenderer(), nil, nil)
	b := engine.New(testConfig(), domain.NewAccount(10_000, 0), testRenderer(), nil, nil)

	snapA, _, err := a.RunOnce(context.Background())
	require.NoError(t, err)
	snapB, _, err := b.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, snapA.Price, snapB.Price)
	assert.Equal(t, snapA.Candle, snapB.Candle)
}

func TestEngine_RunStopsAtMaxTicks(t *testing.T) {
	cfg := testConfig()
	cfg.MaxTicks = 3
	sink := &capture{}
	e := engine.New(cfg, domain.NewAccount(10_000, 0), testRenderer(), sink, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, e.Run(ctx))
	assert.Equal(t, 3, sink.count())

	snap, _ := sink.last()
	assert.Equal(t, 3, snap.Tick)
}

func TestEngine_TradesServicedDuringRun(t *testing.T) {
	cfg := testConfig()
	cfg.TickInterval = time.Hour // first tick fires immediately, then idle
	sink := &capture{}
	e := engine.New(cfg, domain.NewAccount(10_000, 0), testRenderer(), sink, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	trade, err := e.SubmitTrade(ctx, domain.SideBuy, 0.1)
	require.NoError(t, err)
	assert.Equal(t, domain.SideBuy, trade.Side)
	assert.Equal(t, "0.1", trade.Quantity.String())

	snap, err := e.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0.1", snap.Base.String())
	assert.True(t, snap.Quote.LessThan(decimal.NewFromInt(10_000)))

	_, err = e.SubmitTrade(ctx, domain.SideSell, 5.0)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	_, err = e.SubmitTrade(ctx, domain.SideBuy, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	cancel()
	require.NoError(t, <-done)
}

func TestEngine_TradeThrottle(t *testing.T) {
	cfg := testConfig()
	cfg.TickInterval = time.Hour
	e := engine.New(cfg, domain.NewAccount(1_000_000, 0), testRenderer(), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	// Burst through the limiter: eventually submissions get rejected
	// without touching balances.
	var throttled bool
	for i := 0; i < 10; i++ {
		_, err := e.SubmitTrade(ctx, domain.SideBuy, 0.001)
		if err != nil {
			assert.ErrorIs(t, err, engine.ErrTradeThrottled)
			throttled = true
			break
		}
	}
	assert.True(t, throttled)

	cancel()
	require.NoError(t, <-done)
}
