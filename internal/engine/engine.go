package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/tradesim/internal/chart"
	"github.com/alejandrodnm/tradesim/internal/domain"
	"github.com/alejandrodnm/tradesim/internal/ports"
)

// ErrTradeThrottled rejects trade submissions that arrive faster than the
// throttle allows. Nothing is mutated; the caller can simply retry.
var ErrTradeThrottled = errors.New("trade submissions throttled")

const (
	tradeRefill = 200 * time.Millisecond
	tradeBurst  = 3
)

// Config holds the engine settings.
type Config struct {
	TickInterval time.Duration
	Symbol       string
	InitialPrice float64
	Drift        float64
	Volatility   float64
	Seed         int64 // 0 = seed from wall clock
	MaxTicks     int   // 0 = run until the context is canceled

	ChartWidth int
	CandleStep int
}

// Engine owns the mutable simulation state: current price, candle history
// and the account. Everything runs on the Run goroutine; trades and queries
// arrive over channels, so no state needs locking.
type Engine struct {
	cfg       Config
	walk      *domain.Walk
	agg       *domain.Aggregator
	history   domain.History
	account   *domain.Account
	renderer  chart.Renderer
	presenter ports.Presenter
	recorder  ports.Recorder

	price   float64
	tickNum int

	trades  chan tradeRequest
	queries chan queryRequest
	limiter *rate.Limiter
}

type tradeRequest struct {
	side domain.Side
	qty  float64
	resp chan tradeResponse
}

type tradeResponse struct {
	trade domain.Trade
	err   error
}

type queryRequest struct {
	resp chan domain.TickSnapshot
}

// New creates an engine. The recorder may be nil to disable recording.
func New(
	cfg Config,
	account *domain.Account,
	renderer chart.Renderer,
	presenter ports.Presenter,
	recorder ports.Recorder,
) *Engine {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Engine{
		cfg:       cfg,
		walk:      domain.NewWalk(cfg.Drift, cfg.Volatility, seed),
		agg:       domain.NewAggregator(seed + 1),
		account:   account,
		renderer:  renderer,
		presenter: presenter,
		recorder:  recorder,
		price:     cfg.InitialPrice,
		trades:    make(chan tradeRequest),
		queries:   make(chan queryRequest),
		limiter:   rate.NewLimiter(rate.Every(tradeRefill), tradeBurst),
	}
}

// Run drives the simulation until the context is canceled or MaxTicks is
// reached. The first tick fires immediately; after each completed tick the
// timer is re-armed, so a slow tick delays the next one but never overlaps
// it. Trade and query commands are serviced on the same loop between ticks.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("simulation starting",
		"symbol", e.cfg.Symbol,
		"interval", e.cfg.TickInterval,
		"price", e.cfg.InitialPrice,
	)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("simulation stopped", "ticks", e.tickNum)
			return nil

		case <-timer.C:
			if _, _, err := e.tick(ctx); err != nil {
				slog.Error("tick failed", "err", err)
			}
			if e.cfg.MaxTicks > 0 && e.tickNum >= e.cfg.MaxTicks {
				slog.Info("simulation finished", "ticks", e.tickNum)
				return nil
			}
			timer.Reset(e.cfg.TickInterval)

		case req := <-e.trades:
			req.resp <- e.execute(req.side, req.qty)

		case req := <-e.queries:
			req.resp <- e.snapshot()
		}
	}
}

// RunOnce executes exactly one tick and returns its output. Used by the
// -once mode and by tests; it does not service trade commands.
func (e *Engine) RunOnce(ctx context.Context) (domain.TickSnapshot, []chart.Primitive, error) {
	return e.tick(ctx)
}

// SubmitTrade hands a trade to the simulation loop and waits for the result.
// Submissions pass a small rate limiter so a wedged caller cannot
// machine-gun orders into the book.
func (e *Engine) SubmitTrade(ctx context.Context, side domain.Side, qty float64) (domain.Trade, error) {
	if !e.limiter.Allow() {
		return domain.Trade{}, ErrTradeThrottled
	}

	req := tradeRequest{side: side, qty: qty, resp: make(chan tradeResponse, 1)}
	select {
	case e.trades <- req:
	case <-ctx.Done():
		return domain.Trade{}, ctx.Err()
	}

	select {
	case resp := <-req.resp:
		return resp.trade, resp.err
	case <-ctx.Done():
		return domain.Trade{}, ctx.Err()
	}
}

// Snapshot returns the current state without advancing the simulation.
func (e *Engine) Snapshot(ctx context.Context) (domain.TickSnapshot, error) {
	req := queryRequest{resp: make(chan domain.TickSnapshot, 1)}
	select {
	case e.queries <- req:
	case <-ctx.Done():
		return domain.TickSnapshot{}, ctx.Err()
	}

	select {
	case snap := <-req.resp:
		return snap, nil
	case <-ctx.Done():
		return domain.TickSnapshot{}, ctx.Err()
	}
}

// tick runs one pipeline pass: price step, candle append, window, frame,
// then presentation and recording. Presenter and recorder failures are
// warnings, never fatal to the loop.
func (e *Engine) tick(ctx context.Context) (domain.TickSnapshot, []chart.Primitive, error) {
	e.price = e.walk.Next(e.price)
	candle := e.agg.Append(&e.history, e.price)
	e.tickNum++

	window := chart.ComputeWindow(e.history.All(), e.cfg.ChartWidth, e.cfg.CandleStep)
	frame := e.renderer.Frame(window)
	snap := e.snapshot()

	if e.presenter != nil {
		if err := e.presenter.Present(ctx, snap, frame); err != nil {
			slog.Warn("presenter error", "err", err)
		}
	}
	if e.recorder != nil {
		if err := e.recorder.RecordCandle(ctx, e.tickNum, candle); err != nil {
			slog.Warn("recorder error", "err", err)
		}
	}

	slog.Debug("tick complete",
		"tick", e.tickNum,
		"price", fmt.Sprintf("%.2f", e.price),
		"direction", candle.Direction().String(),
		"visible", len(window.Candles),
	)
	return snap, frame, nil
}

func (e *Engine) execute(side domain.Side, qty float64) tradeResponse {
	var (
		trade domain.Trade
		err   error
	)
	switch side {
	case domain.SideBuy:
		trade, err = e.account.Buy(qty, e.price)
	case domain.SideSell:
		trade, err = e.account.Sell(qty, e.price)
	default:
		err = fmt.Errorf("engine.execute: unknown side %q", side)
	}

	if err != nil {
		slog.Warn("trade rejected", "side", side, "qty", qty, "err", err)
		return tradeResponse{err: err}
	}

	slog.Info("trade executed",
		"side", trade.Side,
		"qty", trade.Quantity.String(),
		"price", fmt.Sprintf("%.2f", e.price),
		"value", "$"+trade.Value.StringFixed(2),
		"quote", "$"+e.account.Quote().StringFixed(2),
		"base", e.account.Base().String(),
	)
	return tradeResponse{trade: trade}
}

func (e *Engine) snapshot() domain.TickSnapshot {
	candle, _ := e.history.Last()
	return domain.TickSnapshot{
		Tick:   e.tickNum,
		Symbol: e.cfg.Symbol,
		Price:  e.price,
		Candle: candle,
		Quote:  e.account.Quote(),
		Base:   e.account.Base(),
		Equity: e.account.Equity(e.price),
		At:     time.Now().UTC(),
	}
}
