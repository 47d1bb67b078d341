package kafka

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ariefcatur/bookstore-orders/internal/orders"
)

var ErrMalformedEvent = errors.New("malformed event")

func MustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

// DecodeEnvelope parses a message value. Envelopes without an event id or
// type are rejected since they can be neither deduplicated nor routed.
func DecodeEnvelope(b []byte) (orders.Envelope, error) {
	var env orders.Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return env, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if env.EventID == "" || env.EventType == "" {
		return env, fmt.Errorf("%w: missing event id or type", ErrMalformedEvent)
	}
	return env, nil
}

func UnwrapPayload[T any](payload json.RawMessage) (T, error) {
	var t T
	if err := json.Unmarshal(payload, &t); err != nil {
		return t, fmt.Errorf("%w: decode payload: %v", ErrMalformedEvent, err)
	}
	return t, nil
}
