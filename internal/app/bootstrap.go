package app

import (
	"io"
	"log/slog"

	"kline_feed/internal/infra"
	"kline_feed/internal/infra/binance"
	"kline_feed/internal/infra/storage"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config  *infra.Config
	Storage *storage.Storage // nil unless storage.enabled
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads config, installs the logger and opens the bar archive
func (b *Bootstrap) Initialize(configPath string) error {
	// 1. Load Config
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err // Let Launch report it
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)
	slog.Info("🚀 Bootstrapping kline feed...", slog.String("version", cfg.App.Version))

	// 3. Initialize Storage (optional)
	if cfg.Storage.Enabled {
		store, err := storage.NewStorage(cfg.Storage.Path)
		if err != nil {
			return err
		}
		b.Storage = store
		slog.Info("✅ Bar archive initialized", slog.String("path", cfg.Storage.Path))
	}

	return nil
}

// ExchangeOptions wires the bootstrapped dependencies into the Binance adapter
func (b *Bootstrap) ExchangeOptions(out io.Writer) []binance.ExchangeOption {
	opts := []binance.ExchangeOption{
		binance.WithOutput(out),
		binance.WithExchangeLogger(slog.Default().With("module", "binance")),
	}
	if b.Storage != nil {
		opts = append(opts, binance.WithRepository(b.Storage))
	}
	return opts
}

// Close releases resources opened by Initialize
func (b *Bootstrap) Close() {
	if b.Storage == nil {
		return
	}
	if err := b.Storage.Close(); err != nil {
		slog.Warn("Failed to close bar archive", slog.Any("error", err))
	}
}
