package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"kline_feed/internal/domain"
	"kline_feed/internal/infra"
	"kline_feed/internal/infra/binance"
	"kline_feed/internal/strategy"
)

// ConfigPath is read relative to the working directory
const ConfigPath = "configs/config.yaml"

// Launch runs the kline feed until the stream ends or SIGINT/SIGTERM arrives.
// Failures are printed, never returned.
func Launch() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	launch(ctx, ConfigPath, os.Stdout)
}

func launch(ctx context.Context, configPath string, out io.Writer) {
	bootstrap := NewBootstrap()
	if err := bootstrap.Initialize(configPath); err != nil {
		fmt.Fprintf(out, "Failed to bootstrap: %v\n", err)
		return
	}
	defer bootstrap.Close()

	// Venue selection is fixed to the first exchange code.
	exchangeType, err := domain.ExchangeTypeFromCode(0)
	if err != nil {
		fmt.Fprintf(out, "Failed to initialize strategy: %v\n", err)
		return
	}

	factory := strategy.BinanceFactory(
		binance.NewExchangeConfig(bootstrap.Config),
		bootstrap.ExchangeOptions(out)...,
	)
	strat := strategy.New(factory)

	if err := strat.Init(ctx, exchangeType); err != nil {
		fmt.Fprintf(out, "Failed to initialize strategy: %v\n", err)
	}

	snap := infra.GlobalMetrics.Snapshot()
	slog.Info("👋 Kline feed stopped",
		slog.Uint64("frames", snap.FramesRead),
		slog.Uint64("events", snap.EventsDispatched),
		slog.Uint64("bars_closed", snap.BarsClosed),
		slog.Uint64("errors", snap.ErrorsTotal))
}
