package kafka

import (
	"context"
	"strconv"

	"github.com/ariefcatur/bookstore-orders/internal/orders"
	"github.com/ariefcatur/bookstore-orders/internal/telemetry"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const eventVersion = 1

// OrderPublisher implements orders.Publisher by wrapping each event in an
// orders.Envelope keyed by order id.
type OrderPublisher struct {
	Producer *Producer
	Service  string
}

func (p *OrderPublisher) Publish(ctx context.Context, ev orders.Event) error {
	env := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     ev.Type,
		EventVersion:  eventVersion,
		OccurredAt:    ev.OccurredAt.UTC(),
		Producer:      p.Service,
		TraceID:       telemetry.RequestID(ctx),
		CorrelationID: ev.Order.ID,
		Payload:       MustMarshal(orders.PayloadFor(ev)),
	}
	return p.Producer.Publish(ctx, orders.PartitionKey(ev.Order.ID), MustMarshal(env),
		kafka.Header{Key: "x-event-type", Value: []byte(ev.Type)},
		kafka.Header{Key: "x-event-version", Value: []byte(strconv.Itoa(eventVersion))},
	)
}
