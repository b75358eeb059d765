package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full simulator configuration.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Account    AccountConfig    `yaml:"account"`
	Chart      ChartConfig      `yaml:"chart"`
	Storage    StorageConfig    `yaml:"storage"`
	Log        LogConfig        `yaml:"log"`
}

// SimulationConfig controls the price process and the tick driver.
type SimulationConfig struct {
	TickSeconds  int     `yaml:"tick_seconds"`
	Symbol       string  `yaml:"symbol"`
	InitialPrice float64 `yaml:"initial_price"`
	Drift        float64 `yaml:"drift"`      // mean pct change per tick
	Volatility   float64 `yaml:"volatility"` // stddev of pct change per tick
	Seed         int64   `yaml:"seed"`       // 0 = seed from wall clock
}

// AccountConfig sets the fictional starting balances.
type AccountConfig struct {
	QuoteBalance float64 `yaml:"quote_balance"` // USD
	BaseBalance  float64 `yaml:"base_balance"`  // ETH
}

// ChartConfig fixes the chart geometry in pixels.
type ChartConfig struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	CandleWidth int    `yaml:"candle_width"`
	CandleGap   int    `yaml:"candle_gap"`
	GridHLines  int    `yaml:"grid_hlines"`
	GridVLines  int    `yaml:"grid_vlines"`
	Theme       string `yaml:"theme"` // optional palette file; empty = built-in
}

// StorageConfig controls the optional candle recorder.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // SQLite file path, or ":memory:"
}

// LogConfig controls log format and level.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load reads the YAML config file and the .env file if present.
// Environment variables override the YAML values for the keys they cover.
// A missing config file is not an error: the defaults describe a runnable sim.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	case os.IsNotExist(err):
		// no file: run on defaults
	default:
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// TickInterval returns the simulation period as a time.Duration.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Simulation.TickSeconds) * time.Second
}

// CandleStep is the horizontal advance per candle: body width plus gap.
func (c *Config) CandleStep() int {
	return c.Chart.CandleWidth + c.Chart.CandleGap
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TRADESIM_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
}

// setDefaults fills every unset value with the stock simulation parameters.
func setDefaults(cfg *Config) {
	if cfg.Simulation.TickSeconds <= 0 {
		cfg.Simulation.TickSeconds = 5
	}
	if cfg.Simulation.Symbol == "" {
		cfg.Simulation.Symbol = "ETH/USD"
	}
	if cfg.Simulation.InitialPrice <= 0 {
		cfg.Simulation.InitialPrice = 3500.00
	}
	if cfg.Simulation.Volatility <= 0 {
		cfg.Simulation.Volatility = 0.006 // ~0.6% per step
	}
	if cfg.Account.QuoteBalance <= 0 {
		cfg.Account.QuoteBalance = 10_000.00
	}
	if cfg.Account.BaseBalance < 0 {
		cfg.Account.BaseBalance = 0
	}
	if cfg.Chart.Width <= 0 {
		cfg.Chart.Width = 1450
	}
	if cfg.Chart.Height <= 0 {
		cfg.Chart.Height = 560
	}
	if cfg.Chart.CandleWidth <= 0 {
		cfg.Chart.CandleWidth = 12
	}
	if cfg.Chart.CandleGap <= 0 {
		cfg.Chart.CandleGap = 4
	}
	if cfg.Chart.GridHLines <= 0 {
		cfg.Chart.GridHLines = 6
	}
	if cfg.Chart.GridVLines <= 0 {
		cfg.Chart.GridVLines = 8
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "tradesim.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
