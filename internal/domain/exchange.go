package domain

import "context"

// ExchangeType enumerates supported venues. The numeric value is the venue code.
type ExchangeType uint8

const (
	ExchangeBinance ExchangeType = iota
)

// String returns the string representation of ExchangeType
func (t ExchangeType) String() string {
	switch t {
	case ExchangeBinance:
		return "BINANCE"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether t names a known venue.
func (t ExchangeType) Valid() bool {
	return t == ExchangeBinance
}

// ExchangeTypeFromCode resolves a venue code.
func ExchangeTypeFromCode(code uint8) (ExchangeType, error) {
	t := ExchangeType(code)
	if !t.Valid() {
		return 0, &UnknownExchangeError{Code: code}
	}
	return t, nil
}

// Exchange is the capability set every venue adapter provides.
type Exchange interface {
	// Init wires the market-data stream and blocks until it terminates.
	Init(ctx context.Context) error
}
