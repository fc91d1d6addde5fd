package binance

import "strings"

// DefaultWSURL is the public USDⓈ-M futures market-data base URL
const DefaultWSURL = "wss://fstream.binance.com/ws"

// Endpoint selects the stream base URL: the built-in default or a custom one.
type Endpoint struct {
	base   string
	custom bool
}

// DefaultEndpoint uses DefaultWSURL
var DefaultEndpoint = Endpoint{}

// CustomEndpoint uses base verbatim. No validation is applied.
func CustomEndpoint(base string) Endpoint {
	return Endpoint{base: base, custom: true}
}

// Base returns the base URL without a topic.
func (e Endpoint) Base() string {
	if e.custom {
		return e.base
	}
	return DefaultWSURL
}

// Params returns the full stream URL for topic: base + "/" + topic.
func (e Endpoint) Params(topic string) string {
	return e.Base() + "/" + topic
}

// KlineTopic builds a <symbol>@kline_<interval> subscription topic.
func KlineTopic(symbol, interval string) string {
	return strings.ToLower(symbol) + "@kline_" + interval
}
