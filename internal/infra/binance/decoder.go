package binance

import (
	"fmt"

	"kline_feed/internal/domain"

	"github.com/goccy/go-json"
)

// maxEnvelopeDepth bounds nested "data" unwrapping
const maxEnvelopeDepth = 8

// Decode turns one text frame into an event.
//
// Malformed JSON and envelopes nested deeper than maxEnvelopeDepth fail with
// domain.ErrDecodeFailed. A payload that matches no known shape returns
// (nil, nil) so new server-side stream types do not break the client.
func Decode(msg []byte) (domain.WebsocketEvent, error) {
	return decode(msg, 0)
}

func decode(msg []byte, depth int) (domain.WebsocketEvent, error) {
	if depth > maxEnvelopeDepth {
		return nil, domain.NewStreamError("decode", domain.ErrDecodeFailed,
			fmt.Errorf("envelope nesting exceeds %d levels", maxEnvelopeDepth))
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(msg, &fields); err != nil {
		if !json.Valid(msg) {
			return nil, domain.NewStreamError("decode", domain.ErrDecodeFailed, err)
		}
		// Valid JSON that is not an object: arrays, scalars.
		return nil, nil
	}
	if fields == nil {
		return nil, nil
	}

	if data, ok := fields[envelopeDataKey]; ok {
		return decode(data, depth+1)
	}

	return match(fields), nil
}

// match returns the first shape that fits, or nil.
func match(fields map[string]json.RawMessage) domain.WebsocketEvent {
	tag, tagged := eventTag(fields)
	for _, s := range shapes {
		if tagged && s.tag != "" && s.tag != tag {
			continue
		}
		if ev, ok := s.decode(fields); ok {
			return ev
		}
	}
	return nil
}

func eventTag(fields map[string]json.RawMessage) (string, bool) {
	raw, ok := fields[eventTypeKey]
	if !ok {
		return "", false
	}
	var tag string
	if err := json.Unmarshal(raw, &tag); err != nil {
		return "", false
	}
	return tag, true
}
