package infra

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"kline_feed/internal/domain"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultSymbol and DefaultInterval form the default ethusdt@kline_1m subscription
	DefaultSymbol   = "ethusdt"
	DefaultInterval = "1m"
)

// validIntervals are the kline intervals accepted by Binance futures
var validIntervals = map[string]bool{
	"1m": true, "3m": true, "5m": true, "15m": true, "30m": true,
	"1h": true, "2h": true, "4h": true, "6h": true, "8h": true, "12h": true,
	"1d": true, "3d": true, "1w": true, "1M": true,
}

// Config holds every application setting.
// LoadConfig applies defaults, then the YAML file, then environment overrides.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Binance struct {
		// WSURL overrides the built-in endpoint base when set
		WSURL               string `yaml:"ws_url"`
		Symbol              string `yaml:"symbol"`
		Interval            string `yaml:"interval"`
		ReadTimeoutSec      int    `yaml:"read_timeout_sec"`
		HandshakeTimeoutSec int    `yaml:"handshake_timeout_sec"`
	} `yaml:"binance"`

	Storage struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"storage"`

	Logging struct {
		Level string `yaml:"level"`
		Dir   string `yaml:"dir"`
	} `yaml:"logging"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	var cfg Config
	cfg.App.Name = "kline_feed"
	cfg.App.Version = "v0.1.0"
	cfg.Binance.Symbol = DefaultSymbol
	cfg.Binance.Interval = DefaultInterval
	cfg.Binance.HandshakeTimeoutSec = 10
	cfg.Logging.Level = "info"
	cfg.Logging.Dir = "logs"
	return &cfg
}

// LoadConfig reads and parses the config file. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// defaults only
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	overrideWithEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.Binance.WSURL != "" && !hasPrefix(c.Binance.WSURL, "ws://") && !hasPrefix(c.Binance.WSURL, "wss://") {
		return &domain.ConfigError{Field: "binance.ws_url", Err: fmt.Errorf("must start with ws:// or wss://, got %q", c.Binance.WSURL)}
	}
	if c.Binance.Symbol == "" {
		return &domain.ConfigError{Field: "binance.symbol", Err: errors.New("symbol is required")}
	}
	if !validIntervals[c.Binance.Interval] {
		return &domain.ConfigError{Field: "binance.interval", Err: fmt.Errorf("unsupported interval %q", c.Binance.Interval)}
	}
	if c.Binance.ReadTimeoutSec < 0 || c.Binance.HandshakeTimeoutSec < 0 {
		return &domain.ConfigError{Field: "binance", Err: errors.New("timeouts must not be negative")}
	}
	if c.Storage.Enabled && c.Storage.Path == "" {
		return &domain.ConfigError{Field: "storage.path", Err: errors.New("path is required when storage is enabled")}
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &domain.ConfigError{Field: "logging.level", Err: fmt.Errorf("unknown level %q", c.Logging.Level)}
	}

	return nil
}

// ReadTimeout returns the per-frame read deadline, zero when disabled
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Binance.ReadTimeoutSec) * time.Second
}

// HandshakeTimeout returns the WebSocket handshake timeout
func (c *Config) HandshakeTimeout() time.Duration {
	return time.Duration(c.Binance.HandshakeTimeoutSec) * time.Second
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[0:len(prefix)] == prefix
}

// overrideWithEnv overwrites settings with environment variables when present.
func overrideWithEnv(cfg *Config) {
	if v := os.Getenv("KLINE_FEED_WS_URL"); v != "" {
		cfg.Binance.WSURL = v
	}
	if v := os.Getenv("KLINE_FEED_SYMBOL"); v != "" {
		cfg.Binance.Symbol = strings.ToLower(v)
	}
	if v := os.Getenv("KLINE_FEED_INTERVAL"); v != "" {
		cfg.Binance.Interval = v
	}
	if v := os.Getenv("KLINE_FEED_READ_TIMEOUT_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Binance.ReadTimeoutSec = n
		}
	}
	if v := os.Getenv("KLINE_FEED_STORAGE_PATH"); v != "" {
		cfg.Storage.Enabled = true
		cfg.Storage.Path = v
	}
	if v := os.Getenv("KLINE_FEED_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
