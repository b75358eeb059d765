package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/alejandrodnm/tradesim/config"
	"github.com/alejandrodnm/tradesim/internal/adapters/notify"
	"github.com/alejandrodnm/tradesim/internal/adapters/storage"
	"github.com/alejandrodnm/tradesim/internal/chart"
	"github.com/alejandrodnm/tradesim/internal/domain"
	"github.com/alejandrodnm/tradesim/internal/engine"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one tick and exit")
	ticks := flag.Int("ticks", 0, "stop after N ticks (0 = run until interrupted)")
	seed := flag.Int64("seed", 0, "random seed (overrides config; 0 = wall clock)")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print a full snapshot table every tick")
	chartView := flag.Bool("chart", false, "print an ASCII rendering of the frame every tick")
	noRecord := flag.Bool("no-record", false, "disable the SQLite candle recorder")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}
	setupLogger(cfg.Log)

	slog.Info("tradesim starting",
		"config", *configPath,
		"symbol", cfg.Simulation.Symbol,
		"interval", cfg.TickInterval(),
		"once", *once,
		"ticks", *ticks,
	)

	var recorder *storage.CandleStore
	if !*noRecord && !*once {
		recorder, err = storage.NewCandleStore(cfg.Storage.DSN, cfg.Simulation.Symbol, cfg.Simulation.Seed)
		if err != nil {
			slog.Error("failed to open recorder", "err", err, "dsn", cfg.Storage.DSN)
			os.Exit(1)
		}
		defer recorder.Close()
	}

	palette := chart.LoadPalette(cfg.Chart.Theme)
	renderer := chart.NewRenderer(
		cfg.Chart.Width, cfg.Chart.Height,
		cfg.Chart.CandleWidth, cfg.CandleStep(),
		cfg.Chart.GridHLines, cfg.Chart.GridVLines,
		palette,
	)

	account := domain.NewAccount(cfg.Account.QuoteBalance, cfg.Account.BaseBalance)
	presenter := notify.NewConsole(cfg.Chart.Width, cfg.Chart.Height, *table, *chartView)

	engCfg := engine.Config{
		TickInterval: cfg.TickInterval(),
		Symbol:       cfg.Simulation.Symbol,
		InitialPrice: cfg.Simulation.InitialPrice,
		Drift:        cfg.Simulation.Drift,
		Volatility:   cfg.Simulation.Volatility,
		Seed:         cfg.Simulation.Seed,
		MaxTicks:     *ticks,
		ChartWidth:   cfg.Chart.Width,
		CandleStep:   cfg.CandleStep(),
	}

	e := buildEngine(engCfg, account, renderer, presenter, recorder)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *once {
		if _, _, err := e.RunOnce(ctx); err != nil {
			slog.Error("tick failed", "err", err)
			os.Exit(1)
		}
		return
	}

	go readCommands(ctx, cancel, e, os.Stdin, os.Stdout)

	if err := e.Run(ctx); err != nil {
		slog.Error("simulation exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("tradesim stopped cleanly")
}

// buildEngine keeps the nil-interface trap out of main: a nil *CandleStore
// must become a nil ports.Recorder, not a non-nil interface holding nil.
func buildEngine(
	cfg engine.Config,
	account *domain.Account,
	renderer chart.Renderer,
	presenter *notify.Console,
	recorder *storage.CandleStore,
) *engine.Engine {
	if recorder == nil {
		return engine.New(cfg, account, renderer, presenter, nil)
	}
	return engine.New(cfg, account, renderer, presenter, recorder)
}

// readCommands is the interactive trade console: buy/sell/balance/quit read
// from stdin, executed against the running engine. EOF just stops reading;
// errors are reported to the user and never kill the simulation.
func readCommands(ctx context.Context, cancel context.CancelFunc, e *engine.Engine, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "buy", "sell":
			side := domain.SideBuy
			if strings.EqualFold(fields[0], "sell") {
				side = domain.SideSell
			}
			runTrade(ctx, e, side, fields, out)

		case "balance":
			snap, err := e.Snapshot(ctx)
			if err != nil {
				fmt.Fprintf(out, "balance unavailable: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "USD %s | ETH %s | equity $%s\n",
				snap.Quote.StringFixed(2), snap.Base.String(), snap.Equity.StringFixed(2))

		case "quit", "exit":
			cancel()
			return

		default:
			fmt.Fprintln(out, "commands: buy <qty> | sell <qty> | balance | quit")
		}
	}
}

func runTrade(ctx context.Context, e *engine.Engine, side domain.Side, fields []string, out io.Writer) {
	if len(fields) != 2 {
		fmt.Fprintf(out, "usage: %s <qty>, e.g. %s 0.10\n",
			strings.ToLower(string(side)), strings.ToLower(string(side)))
		return
	}

	qty, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		fmt.Fprintf(out, "invalid quantity %q: enter a positive amount of ETH, e.g. 0.10\n", fields[1])
		return
	}

	trade, err := e.SubmitTrade(ctx, side, qty)
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		fmt.Fprintln(out, "invalid quantity: enter a positive amount of ETH, e.g. 0.10")
	case errors.Is(err, domain.ErrInsufficientFunds):
		fmt.Fprintln(out, "insufficient balance for this trade")
	case errors.Is(err, engine.ErrTradeThrottled):
		fmt.Fprintln(out, "slow down: too many orders, try again in a moment")
	case err != nil:
		fmt.Fprintf(out, "trade failed: %v\n", err)
	default:
		verb := "bought"
		if trade.Side == domain.SideSell {
			verb = "sold"
		}
		fmt.Fprintf(out, "%s %s ETH for $%s\n", verb, trade.Quantity.String(), trade.Value.StringFixed(2))
	}
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
