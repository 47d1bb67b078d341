package tracking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	kafkax "github.com/ariefcatur/bookstore-orders/internal/kafka"
	"github.com/ariefcatur/bookstore-orders/internal/orders"
	"github.com/ariefcatur/bookstore-orders/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

// Service turns order lifecycle events into history entries.
type Service struct {
	History     orders.HistoryStore
	Redis       *redis.Client // optional; dedups redeliveries before they reach History
	ServiceName string
	Log         *slog.Logger
}

func (s *Service) log() *slog.Logger {
	if s.Log == nil {
		return slog.Default()
	}
	return s.Log
}

// HandleOrderEvent is installed as the consumer handler. Malformed messages
// are logged and skipped; a storage failure is returned so the offset is not
// committed.
func (s *Service) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	env, err := kafkax.DecodeEnvelope(m.Value)
	if err != nil {
		s.log().WarnContext(ctx, "skip malformed event", "partition", m.Partition, "offset", m.Offset, "error", err)
		return nil
	}
	switch env.EventType {
	case orders.EventOrderCreated, orders.EventOrderStatusChanged, orders.EventOrderCancelled:
	default:
		return nil
	}

	if s.Redis != nil {
		first, err := redisx.FirstSeen(ctx, s.Redis, s.ServiceName, env.EventID)
		if err != nil {
			return fmt.Errorf("dedup event %s: %w", env.EventID, err)
		}
		if !first {
			s.log().DebugContext(ctx, "duplicate event", "event_id", env.EventID)
			return nil
		}
	}

	p, err := kafkax.UnwrapPayload[orders.OrderEventPayload](env.Payload)
	if err == nil && p.OrderID == "" {
		err = fmt.Errorf("%w: missing order id", kafkax.ErrMalformedEvent)
	}
	if err != nil {
		s.log().WarnContext(ctx, "skip malformed event", "event_id", env.EventID, "error", err)
		return nil
	}

	entry := orders.HistoryEntry{
		EventID:    env.EventID,
		OrderID:    p.OrderID,
		OwnerID:    p.OwnerID,
		EventType:  env.EventType,
		FromStatus: p.OldStatus,
		ToStatus:   p.Status,
		ActorID:    p.ActorID,
		OccurredAt: env.OccurredAt,
	}
	if err := s.History.Append(ctx, entry); err != nil {
		s.forget(ctx, env.EventID)
		return fmt.Errorf("append history %s: %w", env.EventID, err)
	}
	s.log().InfoContext(ctx, "order event recorded",
		"event_id", env.EventID, "event_type", env.EventType, "order_id", p.OrderID, "trace_id", env.TraceID)
	return nil
}

func (s *Service) forget(ctx context.Context, eventID string) {
	if s.Redis == nil {
		return
	}
	if err := redisx.Forget(ctx, s.Redis, s.ServiceName, eventID); err != nil && !errors.Is(err, context.Canceled) {
		s.log().WarnContext(ctx, "release dedup key", "event_id", eventID, "error", err)
	}
}
