package domain

import (
	"errors"
	"strconv"
)

// RetriableError defines an interface for errors that can be retried
type RetriableError interface {
	error
	IsRetriable() bool
}

// IsRetriable checks if an error is retriable
func IsRetriable(err error) bool {
	var re RetriableError
	if errors.As(err, &re) {
		return re.IsRetriable()
	}
	return false
}

var (
	// ErrURLInvalid is returned when a stream endpoint URL cannot be parsed.
	ErrURLInvalid = errors.New("url invalid")

	// ErrHandshakeFailed is returned when TLS or WebSocket negotiation fails. Usually retriable.
	ErrHandshakeFailed = errors.New("handshake failed")

	// ErrTransportFailed is returned on a mid-stream read or write error.
	ErrTransportFailed = errors.New("transport failed")

	// ErrRemoteClosed is returned when the peer sends a close frame.
	ErrRemoteClosed = errors.New("remote closed")

	// ErrDecodeFailed is returned for malformed JSON or pathological envelope nesting.
	ErrDecodeFailed = errors.New("decode failed")

	// ErrHandlerFailed is returned when the event handler reports an error.
	ErrHandlerFailed = errors.New("handler failed")

	// ErrNotConnected is returned when an operation needs a socket but none is held.
	ErrNotConnected = errors.New("not connected")

	// ErrUnknownExchange is returned when an exchange code maps to no venue.
	ErrUnknownExchange = errors.New("unknown exchange")
)

// StreamError attaches an error kind (one of the sentinels above) and the
// failing operation to an underlying cause.
type StreamError struct {
	Op   string // "connect", "read", "decode", "handle", "close"
	Kind error
	Err  error // may be nil
}

// NewStreamError creates a StreamError.
func NewStreamError(op string, kind, err error) *StreamError {
	return &StreamError{Op: op, Kind: kind, Err: err}
}

func (e *StreamError) Error() string {
	msg := e.Op + ": " + e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *StreamError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// IsRetriable reports whether reconnecting could succeed.
func (e *StreamError) IsRetriable() bool {
	switch e.Kind {
	case ErrHandshakeFailed, ErrTransportFailed, ErrRemoteClosed:
		return true
	default:
		return false
	}
}

// UnknownExchangeError carries the exchange code that failed to resolve.
type UnknownExchangeError struct {
	Code uint8
}

func (e *UnknownExchangeError) Error() string {
	return "unknown exchange code " + strconv.Itoa(int(e.Code))
}

func (e *UnknownExchangeError) Is(target error) bool {
	return target == ErrUnknownExchange
}

func (e *UnknownExchangeError) IsRetriable() bool {
	return false
}

// ConfigError represents a configuration error (never retriable)
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return "config error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ConfigError) IsRetriable() bool {
	return false
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
