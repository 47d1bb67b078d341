package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderCancelled     = "order.cancelled"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

type OrderEventPayload struct {
	OrderID   string  `json:"order_id"`
	OwnerID   string  `json:"owner_id"`
	Status    Status  `json:"status"`
	OldStatus Status  `json:"old_status,omitempty"`
	NewStatus Status  `json:"new_status,omitempty"`
	ActorID   string  `json:"actor_id,omitempty"`
	Total     float64 `json:"total"`
	Version   int     `json:"version"`
}

func PayloadFor(ev Event) OrderEventPayload {
	p := OrderEventPayload{
		OrderID: ev.Order.ID,
		OwnerID: ev.Order.OwnerID,
		Status:  ev.Order.Status,
		ActorID: ev.ActorID,
		Total:   ev.Order.Total,
		Version: ev.Order.Version,
	}
	if ev.Type != EventOrderCreated {
		p.OldStatus = ev.OldStatus
		p.NewStatus = ev.Order.Status
	}
	return p
}
