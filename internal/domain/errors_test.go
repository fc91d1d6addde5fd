package domain

import (
	"errors"
	"testing"
)

func TestStreamError(t *testing.T) {
	baseErr := errors.New("connection refused")

	t.Run("kind and cause", func(t *testing.T) {
		err := NewStreamError("connect", ErrHandshakeFailed, baseErr)

		if err.Error() != "connect: handshake failed: connection refused" {
			t.Errorf("Error message = %q", err.Error())
		}
		if !errors.Is(err, ErrHandshakeFailed) {
			t.Error("Expected error to match ErrHandshakeFailed")
		}
		if !errors.Is(err, baseErr) {
			t.Error("Expected error to wrap baseErr")
		}
		if errors.Is(err, ErrTransportFailed) {
			t.Error("Expected error not to match ErrTransportFailed")
		}
	})

	t.Run("no cause", func(t *testing.T) {
		err := NewStreamError("close", ErrNotConnected, nil)

		if err.Error() != "close: not connected" {
			t.Errorf("Error message = %q", err.Error())
		}
		if !errors.Is(err, ErrNotConnected) {
			t.Error("Expected error to match ErrNotConnected")
		}
	})

	t.Run("IsRetriable helper", func(t *testing.T) {
		tests := []struct {
			kind error
			want bool
		}{
			{ErrHandshakeFailed, true},
			{ErrTransportFailed, true},
			{ErrRemoteClosed, true},
			{ErrURLInvalid, false},
			{ErrDecodeFailed, false},
			{ErrHandlerFailed, false},
			{ErrNotConnected, false},
		}
		for _, tt := range tests {
			if got := IsRetriable(NewStreamError("op", tt.kind, baseErr)); got != tt.want {
				t.Errorf("IsRetriable(%v) = %v, want %v", tt.kind, got, tt.want)
			}
		}

		if IsRetriable(errors.New("plain error")) {
			t.Error("IsRetriable should return false for plain error")
		}
	})
}

func TestUnknownExchangeError(t *testing.T) {
	err := &UnknownExchangeError{Code: 7}

	if !errors.Is(err, ErrUnknownExchange) {
		t.Error("Expected error to match ErrUnknownExchange")
	}
	if err.Error() != "unknown exchange code 7" {
		t.Errorf("Error message = %q", err.Error())
	}
	if err.IsRetriable() {
		t.Error("UnknownExchangeError should never be retriable")
	}
}

func TestConfigError(t *testing.T) {
	baseErr := errors.New("missing value")
	err := &ConfigError{Field: "binance.symbol", Err: baseErr}

	if err.IsRetriable() {
		t.Error("ConfigError should never be retriable")
	}

	expected := "config error [binance.symbol]: missing value"
	if err.Error() != expected {
		t.Errorf("Error message = %q, want %q", err.Error(), expected)
	}
}
