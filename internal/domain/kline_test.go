package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestKline_Range(t *testing.T) {
	k := Kline{High: "2002.5", Low: "1999.9"}

	want := decimal.RequireFromString("2.6")
	if got := k.Range(); !got.Equal(want) {
		t.Errorf("Range() = %s, want %s", got, want)
	}
}

func TestKline_ChangePct(t *testing.T) {
	t.Run("Normal Calculation", func(t *testing.T) {
		k := Kline{Open: "100", Close: "105"}

		pct := k.ChangePct()
		if pct == nil || !pct.Equal(decimal.NewFromInt(5)) {
			t.Errorf("Expected 5%%, got %v", pct)
		}
		if k.Direction() != "positive" {
			t.Errorf("Direction() = %q, want positive", k.Direction())
		}
	})

	t.Run("Precision preserved", func(t *testing.T) {
		k := Kline{Open: "0.00000001", Close: "0.00000002"}

		pct := k.ChangePct()
		if pct == nil || !pct.Equal(decimal.NewFromInt(100)) {
			t.Errorf("Expected 100%%, got %v", pct)
		}
	})

	t.Run("Safety: Zero Open", func(t *testing.T) {
		k := Kline{Open: "0", Close: "105"}
		if k.ChangePct() != nil {
			t.Error("Should return nil when open is zero")
		}
		if k.Direction() != "neutral" {
			t.Errorf("Direction() = %q, want neutral", k.Direction())
		}
	})

	t.Run("Safety: Garbage", func(t *testing.T) {
		k := Kline{Open: "abc", Close: "1"}
		if k.ChangePct() != nil {
			t.Error("Should return nil when open is unparseable")
		}
	})
}

func TestKlineEvent_Kind(t *testing.T) {
	var ev WebsocketEvent = &KlineEvent{}
	if ev.Kind() != EventKindBinanceKline {
		t.Errorf("Kind() = %v, want %v", ev.Kind(), EventKindBinanceKline)
	}
	if ev.Kind().String() != "BINANCE_KLINE" {
		t.Errorf("String() = %q", ev.Kind().String())
	}
}
