package strategy

import (
	"context"
	"log/slog"

	"kline_feed/internal/domain"
	"kline_feed/internal/infra/binance"
)

// Factory builds the adapter for a venue
type Factory func(t domain.ExchangeType) (domain.Exchange, error)

// BinanceFactory returns a Factory whose Binance adapters share cfg and opts
func BinanceFactory(cfg binance.ExchangeConfig, opts ...binance.ExchangeOption) Factory {
	return func(t domain.ExchangeType) (domain.Exchange, error) {
		if t != domain.ExchangeBinance {
			return nil, &domain.UnknownExchangeError{Code: uint8(t)}
		}
		return binance.NewExchange(cfg, opts...), nil
	}
}

// Strategy selects a venue and drives its adapter.
// It owns at most one adapter, and only one whose Init succeeded.
type Strategy struct {
	factory  Factory
	exchange domain.Exchange
	logger   *slog.Logger
}

// New creates a Strategy that holds no exchange
func New(factory Factory) *Strategy {
	return &Strategy{
		factory: factory,
		logger:  slog.Default().With("module", "strategy"),
	}
}

// Init builds the adapter for t and blocks in its Init.
// Adapter errors are returned unchanged and the adapter is not kept.
func (s *Strategy) Init(ctx context.Context, t domain.ExchangeType) error {
	var (
		ex  domain.Exchange
		err error
	)
	switch t {
	case domain.ExchangeBinance:
		ex, err = s.factory(t)
	default:
		return &domain.UnknownExchangeError{Code: uint8(t)}
	}
	if err != nil {
		return err
	}

	s.logger.Info("Starting exchange", slog.String("exchange", t.String()))
	if err := ex.Init(ctx); err != nil {
		return err
	}

	s.exchange = ex
	return nil
}

// Exchange returns the retained adapter, or nil
func (s *Strategy) Exchange() domain.Exchange {
	return s.exchange
}
