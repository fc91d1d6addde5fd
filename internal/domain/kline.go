package domain

import "github.com/shopspring/decimal"

// EventKind identifies a WebsocketEvent variant
type EventKind int

const (
	EventKindBinanceKline EventKind = iota + 1
)

// String returns the string representation of EventKind
func (k EventKind) String() string {
	switch k {
	case EventKindBinanceKline:
		return "BINANCE_KLINE"
	default:
		return "UNKNOWN"
	}
}

// WebsocketEvent is a decoded stream event.
// Handlers switch on the concrete type; *KlineEvent is the only case today.
type WebsocketEvent interface {
	Kind() EventKind
}

// KlineEvent is the envelope of a single candlestick update.
type KlineEvent struct {
	EventType string `json:"eventType"`
	EventTime uint64 `json:"eventTime"` // epoch ms
	Symbol    string `json:"symbol"`
	Kline     Kline  `json:"kline"`
}

// Kind implements WebsocketEvent
func (e *KlineEvent) Kind() EventKind {
	return EventKindBinanceKline
}

// Kline is one candlestick for a symbol over an interval.
// Prices and sizes stay as decimal strings exactly as sent by the exchange.
type Kline struct {
	OpenTime                 int64  `json:"openTime"`
	CloseTime                int64  `json:"closeTime"`
	Symbol                   string `json:"symbol"`
	Interval                 string `json:"interval"`
	FirstTradeID             int64  `json:"firstTradeId"`
	LastTradeID              int64  `json:"lastTradeId"`
	Open                     string `json:"open"`
	Close                    string `json:"close"`
	High                     string `json:"high"`
	Low                      string `json:"low"`
	Volume                   string `json:"volume"`
	NumberOfTrades           int64  `json:"numberOfTrades"`
	IsFinalBar               bool   `json:"isFinalBar"`
	QuoteAssetVolume         string `json:"quoteAssetVolume"`
	TakerBuyBaseAssetVolume  string `json:"takerBuyBaseAssetVolume"`
	TakerBuyQuoteAssetVolume string `json:"takerBuyQuoteAssetVolume"`
}

// OpenDecimal parses Open. Unparseable values yield zero.
func (k Kline) OpenDecimal() decimal.Decimal { return parseDecimal(k.Open) }

// CloseDecimal parses Close.
func (k Kline) CloseDecimal() decimal.Decimal { return parseDecimal(k.Close) }

// HighDecimal parses High.
func (k Kline) HighDecimal() decimal.Decimal { return parseDecimal(k.High) }

// LowDecimal parses Low.
func (k Kline) LowDecimal() decimal.Decimal { return parseDecimal(k.Low) }

// Range returns High - Low
func (k Kline) Range() decimal.Decimal {
	return k.HighDecimal().Sub(k.LowDecimal())
}

// ChangePct calculates 100 * (Close - Open) / Open. Returns nil when Open is zero.
func (k Kline) ChangePct() *decimal.Decimal {
	open := k.OpenDecimal()
	if open.IsZero() {
		return nil
	}
	pct := k.CloseDecimal().Sub(open).Div(open).Mul(decimal.NewFromInt(100))
	return &pct
}

// Direction returns "positive", "negative", or "neutral"
func (k Kline) Direction() string {
	pct := k.ChangePct()
	switch {
	case pct == nil:
		return "neutral"
	case pct.IsPositive():
		return "positive"
	case pct.IsNegative():
		return "negative"
	default:
		return "neutral"
	}
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
