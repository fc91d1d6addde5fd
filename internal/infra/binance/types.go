package binance

import (
	"bytes"

	"kline_feed/internal/domain"

	"github.com/goccy/go-json"
)

const (
	envelopeDataKey = "data" // combined stream: {"stream":"...","data":{...}}
	eventTypeKey    = "e"
	klineEventTag   = "kline"
)

// shape is one known event layout on the wire. Shapes must stay disjoint on
// their required keys; overlapping shapes resolve in declaration order.
type shape struct {
	kind   domain.EventKind
	tag    string // expected "e" value, "" to match any
	decode func(fields map[string]json.RawMessage) (domain.WebsocketEvent, bool)
}

var shapes = []shape{
	{kind: domain.EventKindBinanceKline, tag: klineEventTag, decode: decodeKlineEvent},
}

// fieldReader decodes required keys one by one and remembers the first miss.
// Keys are matched exactly; encoding/json-style case folding would confuse
// pairs such as "t"/"T" and "v"/"V".
type fieldReader struct {
	fields map[string]json.RawMessage
	ok     bool
}

func newFieldReader(fields map[string]json.RawMessage) *fieldReader {
	return &fieldReader{fields: fields, ok: true}
}

func (r *fieldReader) read(key string, dst any) {
	if !r.ok {
		return
	}
	raw, found := r.fields[key]
	if !found || isNull(raw) || json.Unmarshal(raw, dst) != nil {
		r.ok = false
	}
}

func isNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// decodeKlineEvent matches
//
//	{"e":"kline","E":123,"s":"ETHUSDT","k":{"t":..,"T":..,"s":..,"i":..,"f":..,"L":..,
//	 "o":..,"c":..,"h":..,"l":..,"v":..,"n":..,"x":..,"q":..,"V":..,"Q":..,"B":..}}
//
// "B" is optional and discarded.
func decodeKlineEvent(fields map[string]json.RawMessage) (domain.WebsocketEvent, bool) {
	var ev domain.KlineEvent
	var k map[string]json.RawMessage

	r := newFieldReader(fields)
	r.read("e", &ev.EventType)
	r.read("E", &ev.EventTime)
	r.read("s", &ev.Symbol)
	r.read("k", &k)
	if !r.ok || k == nil {
		return nil, false
	}

	kr := newFieldReader(k)
	kr.read("t", &ev.Kline.OpenTime)
	kr.read("T", &ev.Kline.CloseTime)
	kr.read("s", &ev.Kline.Symbol)
	kr.read("i", &ev.Kline.Interval)
	kr.read("f", &ev.Kline.FirstTradeID)
	kr.read("L", &ev.Kline.LastTradeID)
	kr.read("o", &ev.Kline.Open)
	kr.read("c", &ev.Kline.Close)
	kr.read("h", &ev.Kline.High)
	kr.read("l", &ev.Kline.Low)
	kr.read("v", &ev.Kline.Volume)
	kr.read("n", &ev.Kline.NumberOfTrades)
	kr.read("x", &ev.Kline.IsFinalBar)
	kr.read("q", &ev.Kline.QuoteAssetVolume)
	kr.read("V", &ev.Kline.TakerBuyBaseAssetVolume)
	kr.read("Q", &ev.Kline.TakerBuyQuoteAssetVolume)
	if !kr.ok {
		return nil, false
	}

	return &ev, true
}
