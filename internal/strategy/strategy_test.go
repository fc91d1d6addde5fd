package strategy_test

import (
	"context"
	"errors"
	"testing"

	"kline_feed/internal/domain"
	"kline_feed/internal/infra/binance"
	"kline_feed/internal/strategy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockExchange struct {
	mock.Mock
}

func (m *mockExchange) Init(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func factoryFor(ex domain.Exchange) strategy.Factory {
	return func(domain.ExchangeType) (domain.Exchange, error) { return ex, nil }
}

func TestStrategy_NewHoldsNothing(t *testing.T) {
	s := strategy.New(factoryFor(&mockExchange{}))
	assert.Nil(t, s.Exchange())
}

func TestStrategy_InitRetainsAdapter(t *testing.T) {
	ex := &mockExchange{}
	ex.On("Init", mock.Anything).Return(nil).Once()

	s := strategy.New(factoryFor(ex))
	require.NoError(t, s.Init(context.Background(), domain.ExchangeBinance))

	ex.AssertExpectations(t)
	assert.Same(t, ex, s.Exchange())
}

func TestStrategy_InitFailurePropagatesUnchanged(t *testing.T) {
	cause := domain.NewStreamError("read", domain.ErrRemoteClosed, errors.New("bye"))
	ex := &mockExchange{}
	ex.On("Init", mock.Anything).Return(cause).Once()

	s := strategy.New(factoryFor(ex))
	err := s.Init(context.Background(), domain.ExchangeBinance)

	assert.Same(t, cause, err)
	assert.Nil(t, s.Exchange(), "failed adapter must not be kept")
	ex.AssertExpectations(t)
}

func TestStrategy_InitPassesContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")

	ex := &mockExchange{}
	ex.On("Init", mock.MatchedBy(func(c context.Context) bool {
		return c.Value(key{}) == "v"
	})).Return(nil)

	s := strategy.New(factoryFor(ex))
	require.NoError(t, s.Init(ctx, domain.ExchangeBinance))
	ex.AssertExpectations(t)
}

func TestStrategy_UnknownExchange(t *testing.T) {
	called := false
	s := strategy.New(func(domain.ExchangeType) (domain.Exchange, error) {
		called = true
		return &mockExchange{}, nil
	})

	err := s.Init(context.Background(), domain.ExchangeType(7))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownExchange)
	assert.False(t, called)
	assert.Nil(t, s.Exchange())
}

func TestStrategy_FactoryError(t *testing.T) {
	boom := errors.New("no adapter")
	s := strategy.New(func(domain.ExchangeType) (domain.Exchange, error) { return nil, boom })

	assert.Same(t, boom, s.Init(context.Background(), domain.ExchangeBinance))
	assert.Nil(t, s.Exchange())
}

func TestBinanceFactory(t *testing.T) {
	f := strategy.BinanceFactory(binance.DefaultExchangeConfig())

	ex, err := f(domain.ExchangeBinance)
	require.NoError(t, err)
	assert.IsType(t, &binance.Exchange{}, ex)

	_, err = f(domain.ExchangeType(3))
	assert.ErrorIs(t, err, domain.ErrUnknownExchange)
}
