package orders

import (
	"context"
	"time"
)

// Store persists order documents. Implementations return ErrNotFound for
// unknown ids and list results newest orderDate first.
type Store interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	// Update replaces the document only if its stored version is still
	// prevVersion, otherwise it returns ErrConflict.
	Update(ctx context.Context, o *Order, prevVersion int) error
}

// Cache holds order snapshots and idempotency claims. Misses are not errors.
type Cache interface {
	GetOrder(ctx context.Context, id string) (*Order, bool, error)
	// PutOrder stores a snapshot unless one with the same or a higher
	// Version is already cached.
	PutOrder(ctx context.Context, o *Order) error
	DeleteOrder(ctx context.Context, id string) error
	// ClaimIdempotencyKey stores orderID under key unless the key is already
	// claimed, in which case the existing order id is returned with claimed=false.
	ClaimIdempotencyKey(ctx context.Context, ownerID, key, orderID string) (existing string, claimed bool, err error)
	ReleaseIdempotencyKey(ctx context.Context, ownerID, key string) error
}

// Publisher emits order lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// OwnerDirectory resolves owner ids to display summaries. Unknown ids are
// simply absent from the result.
type OwnerDirectory interface {
	Lookup(ctx context.Context, ids []string) (map[string]OwnerSummary, error)
}

// HistoryStore keeps the per-order event trail. Append is idempotent on EventID.
type HistoryStore interface {
	Append(ctx context.Context, e HistoryEntry) error
	List(ctx context.Context, orderID string) ([]HistoryEntry, error)
}

// Event is a lifecycle change handed to a Publisher.
type Event struct {
	Type       string
	Order      Order
	OldStatus  Status
	ActorID    string
	OccurredAt time.Time
}

type nopCache struct{}

func (nopCache) GetOrder(context.Context, string) (*Order, bool, error) { return nil, false, nil }
func (nopCache) PutOrder(context.Context, *Order) error                 { return nil }
func (nopCache) DeleteOrder(context.Context, string) error              { return nil }
func (nopCache) ClaimIdempotencyKey(context.Context, string, string, string) (string, bool, error) {
	return "", true, nil
}
func (nopCache) ReleaseIdempotencyKey(context.Context, string, string) error { return nil }

// NopPublisher drops events; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
