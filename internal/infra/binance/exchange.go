package binance

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"kline_feed/internal/domain"
	"kline_feed/internal/infra"
	"kline_feed/internal/service"
)

// ExchangeConfig selects what the adapter subscribes to
type ExchangeConfig struct {
	Endpoint         Endpoint
	Topic            string
	ReadTimeout      time.Duration
	HandshakeTimeout time.Duration
}

// DefaultExchangeConfig subscribes to ethusdt@kline_1m on the default endpoint
func DefaultExchangeConfig() ExchangeConfig {
	return ExchangeConfig{
		Endpoint:         DefaultEndpoint,
		Topic:            KlineTopic(infra.DefaultSymbol, infra.DefaultInterval),
		HandshakeTimeout: defaultHandshakeTimeout,
	}
}

// NewExchangeConfig derives the subscription from application config
func NewExchangeConfig(cfg *infra.Config) ExchangeConfig {
	ec := DefaultExchangeConfig()
	if cfg.Binance.WSURL != "" {
		ec.Endpoint = CustomEndpoint(cfg.Binance.WSURL)
	}
	ec.Topic = KlineTopic(cfg.Binance.Symbol, cfg.Binance.Interval)
	ec.ReadTimeout = cfg.ReadTimeout()
	if d := cfg.HandshakeTimeout(); d > 0 {
		ec.HandshakeTimeout = d
	}
	return ec
}

// ExchangeOption configures Exchange
type ExchangeOption func(*Exchange)

// WithOutput redirects the per-event lines (stdout by default)
func WithOutput(w io.Writer) ExchangeOption {
	return func(e *Exchange) { e.out = w }
}

// WithKlineBook shares a book with other readers
func WithKlineBook(b *service.KlineBook) ExchangeOption {
	return func(e *Exchange) { e.book = b }
}

// WithRepository archives closed bars into repo
func WithRepository(repo domain.KlineRepository) ExchangeOption {
	return func(e *Exchange) { e.repo = repo }
}

// WithExchangeLogger sets the logger used by the adapter and its stream client
func WithExchangeLogger(logger *slog.Logger) ExchangeOption {
	return func(e *Exchange) { e.logger = logger }
}

// WithExchangeMetrics sets the metrics sink
func WithExchangeMetrics(m *infra.Metrics) ExchangeOption {
	return func(e *Exchange) { e.metrics = m }
}

// Exchange is the Binance futures venue adapter.
type Exchange struct {
	cfg     ExchangeConfig
	out     io.Writer
	book    *service.KlineBook
	repo    domain.KlineRepository // optional
	logger  *slog.Logger
	metrics *infra.Metrics

	running     atomic.Bool
	klineSocket *WebSockets
}

var _ domain.Exchange = (*Exchange)(nil)

// NewExchange creates an adapter that has not connected yet
func NewExchange(cfg ExchangeConfig, opts ...ExchangeOption) *Exchange {
	e := &Exchange{
		cfg:     cfg,
		out:     os.Stdout,
		logger:  slog.Default().With("module", "binance"),
		metrics: infra.GlobalMetrics,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.book == nil {
		e.book = service.NewKlineBook()
	}
	return e
}

// Book returns the latest-bar book fed by the stream
func (e *Exchange) Book() *service.KlineBook {
	return e.book
}

// Init connects to the kline stream and blocks until it terminates.
// The socket is always released before Init returns. Cancelling ctx or
// calling Stop ends the stream at the next frame boundary.
func (e *Exchange) Init(ctx context.Context) error {
	e.running.Store(true)
	stopOnCancel := context.AfterFunc(ctx, e.Stop)
	defer stopOnCancel()

	e.klineSocket = NewWebSockets(e.handleEvent,
		WithLogger(e.logger),
		WithMetrics(e.metrics),
		WithReadTimeout(e.cfg.ReadTimeout),
		WithHandshakeTimeout(e.cfg.HandshakeTimeout),
	)

	url := e.cfg.Endpoint.Params(e.cfg.Topic)
	if err := e.klineSocket.Connect(ctx, url); err != nil {
		return err
	}
	e.logger.Info("📈 Streaming klines", slog.String("topic", e.cfg.Topic))

	err := e.klineSocket.EventLoop(&e.running)

	if dErr := e.klineSocket.Disconnect(); dErr != nil {
		e.logger.Warn("Disconnect failed", slog.Any("error", dErr))
	}
	return err
}

// Stop asks a running Init to return
func (e *Exchange) Stop() {
	e.running.Store(false)
}

func (e *Exchange) handleEvent(ev domain.WebsocketEvent) error {
	switch ev := ev.(type) {
	case *domain.KlineEvent:
		return e.onKline(ev)
	default:
		e.logger.Debug("Ignoring event", slog.String("kind", ev.Kind().String()))
		return nil
	}
}

func (e *Exchange) onKline(ev *domain.KlineEvent) error {
	k := ev.Kline
	if _, err := fmt.Fprintf(e.out, "Symbol: %s, high: %s, low: %s\n", k.Symbol, k.High, k.Low); err != nil {
		return err
	}

	e.book.Update(ev)

	if !k.IsFinalBar {
		return nil
	}
	e.metrics.RecordBarClosed()
	if e.repo != nil {
		if err := e.repo.SaveKline(k); err != nil {
			e.metrics.RecordError()
			e.logger.Error("Failed to archive bar",
				slog.String("symbol", k.Symbol),
				slog.Int64("open_time", k.OpenTime),
				slog.Any("error", err))
		}
	}
	return nil
}
