package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	MarketData struct {
		BaseURL        string        `yaml:"base_url"`
		Symbols        []string      `yaml:"symbols"`
		Interval       string        `yaml:"interval"`     // bar resolution, e.g. "1h"
		HistoryDays    int           `yaml:"history_days"` // provider's retrievable horizon
		RequestTimeout time.Duration `yaml:"request_timeout"`
		Stream         struct {
			URL            string        `yaml:"url"`
			APIKey         string        `yaml:"api_key"`
			ReconnectDelay time.Duration `yaml:"reconnect_delay"`
			PingInterval   time.Duration `yaml:"ping_interval"`
		} `yaml:"stream"`
	} `yaml:"market_data"`
	Store struct {
		Path string `yaml:"path"`
	} `yaml:"store"`
	Model struct {
		Path string `yaml:"path"`
	} `yaml:"model"`
	Schedule struct {
		SyncSpec      string `yaml:"sync_spec"`
		LivePriceSpec string `yaml:"live_price_spec"`
		RunOnStart    bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`
	Chart struct {
		DefaultLimit int           `yaml:"default_limit"`
		CacheTTL     time.Duration `yaml:"cache_ttl"`
	} `yaml:"chart"`
}

// Load reads and parses a YAML configuration file, then applies
// defaults and validates.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment
// variables. A missing file is tolerated; defaults and env fill in.
func LoadWithEnv(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if len(b) > 0 {
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("SYMBOLS"); v != "" {
		c.MarketData.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("MARKET_DATA_BASE_URL"); v != "" {
		c.MarketData.BaseURL = v
	}
	if v := os.Getenv("STREAM_API_KEY"); v != "" {
		c.MarketData.Stream.APIKey = v
	}
	if v := os.Getenv("STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("MODEL_PATH"); v != "" {
		c.Model.Path = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("RUN_ON_START"); v != "" {
		c.Schedule.RunOnStart = v == "true" || v == "1"
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if len(c.MarketData.Symbols) == 0 {
		c.MarketData.Symbols = []string{"BTC-USD"}
	}
	if c.MarketData.Interval == "" {
		c.MarketData.Interval = "1h"
	}
	if c.MarketData.HistoryDays == 0 {
		c.MarketData.HistoryDays = 729 // provider horizon for hourly chart data
	}
	if c.MarketData.RequestTimeout == 0 {
		c.MarketData.RequestTimeout = 30 * time.Second
	}
	if c.Store.Path == "" {
		c.Store.Path = "data/bars.parquet"
	}
	if c.Model.Path == "" {
		c.Model.Path = "models/main-model.json"
	}
	if c.Schedule.SyncSpec == "" {
		c.Schedule.SyncSpec = "@every 1h"
	}
	if c.Schedule.LivePriceSpec == "" {
		c.Schedule.LivePriceSpec = "@every 1m"
	}
	if c.Chart.DefaultLimit == 0 {
		c.Chart.DefaultLimit = 200
	}
	if c.Chart.CacheTTL == 0 {
		c.Chart.CacheTTL = 15 * time.Second
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if len(c.MarketData.Symbols) == 0 {
		return fmt.Errorf("market_data.symbols cannot be empty")
	}
	for _, s := range c.MarketData.Symbols {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("market_data.symbols contains an empty symbol")
		}
	}
	if _, err := c.IntervalDuration(); err != nil {
		return err
	}
	if c.MarketData.HistoryDays <= 0 {
		return fmt.Errorf("market_data.history_days must be positive")
	}
	if c.Model.Path == "" {
		return fmt.Errorf("model.path is required")
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	return nil
}

// PrimarySymbol is the symbol predictions are served for.
func (c *Config) PrimarySymbol() string { return c.MarketData.Symbols[0] }

// IntervalDuration converts the bar resolution to a duration.
func (c *Config) IntervalDuration() (time.Duration, error) {
	switch c.MarketData.Interval {
	case "1m":
		return time.Minute, nil
	case "5m":
		return 5 * time.Minute, nil
	case "15m":
		return 15 * time.Minute, nil
	case "1h":
		return time.Hour, nil
	case "1d":
		return 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("market_data.interval %q not supported", c.MarketData.Interval)
	}
}

// HistoryWindow is the provider's retrievable horizon as a duration.
func (c *Config) HistoryWindow() time.Duration {
	return time.Duration(c.MarketData.HistoryDays) * 24 * time.Hour
}
