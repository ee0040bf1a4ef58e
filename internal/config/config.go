// Package config loads the YAML run configuration shared by the CLIs.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"gap-trade-lab/internal/domain"
)

// Storage modes.
const (
	StorageMemory = "memory"
	StorageDB     = "db"
)

// Config is the top-level run configuration.
type Config struct {
	Universe      Universe              `yaml:"universe"`
	Strategy      domain.StrategyConfig `yaml:"strategy"`
	Regime        Regime                `yaml:"regime"`
	Backtest      Backtest              `yaml:"backtest"`
	Metrics       Metrics               `yaml:"metrics"`
	Storage       Storage               `yaml:"storage"`
	Observability Observability         `yaml:"observability"`
}

// Universe names the tickers to simulate and the daily series the
// regime filter reads.
type Universe struct {
	Tickers         []string `yaml:"tickers"`
	BenchmarkSymbol string   `yaml:"benchmark_symbol"` // default SPY
	VolIndexSymbol  string   `yaml:"vol_index_symbol"` // default VIX
}

// Regime configures the market regime filter.
type Regime struct {
	Enabled      bool    `yaml:"enabled"`
	SMAPeriod    int     `yaml:"sma_period"`    // default 200
	VolThreshold float64 `yaml:"vol_threshold"` // default 25
	FailClosed   bool    `yaml:"fail_closed"`
}

// Backtest configures the runner.
type Backtest struct {
	MinTradingDays  int  `yaml:"min_trading_days"` // default 10
	TrendSMAPeriod  int  `yaml:"trend_sma_period"` // default 20
	TrendFailClosed bool `yaml:"trend_fail_closed"`
	Verbose         bool `yaml:"verbose"`
}

// Metrics configures the statistical computation.
type Metrics struct {
	BootstrapIterations int   `yaml:"bootstrap_iterations"` // default 1000
	BootstrapSeed       int64 `yaml:"bootstrap_seed"`       // default 42
}

// Storage selects the backing stores. Mode "memory" needs no DSNs;
// mode "db" reads bars from ClickHouse and writes results to Postgres.
type Storage struct {
	Mode          string `yaml:"mode"`
	ClickhouseDSN string `yaml:"clickhouse_dsn"`
	PostgresDSN   string `yaml:"postgres_dsn"`
}

// Observability configures the Prometheus endpoint.
type Observability struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"` // default :9090
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	if len(c.Universe.Tickers) == 0 {
		return errors.New("universe.tickers cannot be empty")
	}
	if c.Strategy.Type == "" {
		return errors.New("strategy.type is required")
	}
	switch c.Storage.Mode {
	case StorageMemory:
	case StorageDB:
		if c.Storage.ClickhouseDSN == "" {
			return errors.New("storage.clickhouse_dsn is required in db mode")
		}
		if c.Storage.PostgresDSN == "" {
			return errors.New("storage.postgres_dsn is required in db mode")
		}
	default:
		return fmt.Errorf("invalid storage.mode %q: must be %q or %q",
			c.Storage.Mode, StorageMemory, StorageDB)
	}
	if c.Metrics.BootstrapIterations < 0 {
		return fmt.Errorf("metrics.bootstrap_iterations must be positive, got %d",
			c.Metrics.BootstrapIterations)
	}
	return nil
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Parse unmarshals, applies defaults and validates.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if c.Universe.BenchmarkSymbol == "" {
		c.Universe.BenchmarkSymbol = "SPY"
	}
	if c.Universe.VolIndexSymbol == "" {
		c.Universe.VolIndexSymbol = "VIX"
	}
	if c.Storage.Mode == "" {
		c.Storage.Mode = StorageMemory
	}
	if c.Observability.ListenAddr == "" {
		c.Observability.ListenAddr = ":9090"
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
