package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Service owns the order lifecycle: checkout, status transitions and
// retrieval under ownership rules. Store is required; every other
// collaborator is optional.
type Service struct {
	Store   Store
	Cache   Cache
	Events  Publisher
	Owners  OwnerDirectory
	History HistoryStore
	Pricing *Pricing // nil means DefaultPricing

	// OpenStatusUpdates lets any authenticated caller use SetStatus.
	// When false only admins may.
	OpenStatusUpdates bool

	Log   *slog.Logger
	Now   func() time.Time
	NewID func() string
}

func (s *Service) cache() Cache {
	if s.Cache == nil {
		return nopCache{}
	}
	return s.Cache
}

func (s *Service) events() Publisher {
	if s.Events == nil {
		return NopPublisher{}
	}
	return s.Events
}

func (s *Service) pricing() Pricing {
	if s.Pricing == nil {
		return DefaultPricing()
	}
	return *s.Pricing
}

func (s *Service) log() *slog.Logger {
	if s.Log == nil {
		return slog.Default()
	}
	return s.Log
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now()
}

func (s *Service) newID() string {
	if s.NewID == nil {
		return uuid.NewString()
	}
	return s.NewID()
}

// Create validates a checkout submission and persists it as a pending order.
// A non-empty idemKey makes retries of the same submission return the order
// created by the first attempt; replayed reports that case.
func (s *Service) Create(ctx context.Context, who Identity, in CreateInput, idemKey string) (o *Order, replayed bool, err error) {
	if err := Validate(in); err != nil {
		return nil, false, err
	}
	pm, err := ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, false, err
	}
	pricing := s.pricing()
	q := pricing.Quote(in.Items)
	if err := pricing.Verify(in, q); err != nil {
		return nil, false, err
	}

	now := s.now()
	o = &Order{
		ID:              s.newID(),
		OwnerID:         who.ID,
		Items:           append([]Item(nil), in.Items...),
		ShippingAddress: *in.ShippingAddress,
		PaymentMethod:   pm,
		Subtotal:        q.Subtotal,
		Tax:             q.Tax,
		Total:           q.Total,
		Status:          StatusPending,
		OrderDate:       now,
		Version:         1,
		UpdatedAt:       now,
	}

	if idemKey != "" {
		existing, claimed, err := s.cache().ClaimIdempotencyKey(ctx, who.ID, idemKey, o.ID)
		switch {
		case err != nil:
			s.log().WarnContext(ctx, "idempotency claim failed, continuing without it", "error", err)
			idemKey = ""
		case !claimed:
			prev, err := s.Store.Get(ctx, existing)
			if errors.Is(err, ErrNotFound) {
				return nil, false, ErrIdempotencyInFlight
			}
			if err != nil {
				return nil, false, fmt.Errorf("load replayed order: %w", err)
			}
			return prev, true, nil
		}
	}

	if err := s.Store.Create(ctx, o); err != nil {
		if idemKey != "" {
			if rerr := s.cache().ReleaseIdempotencyKey(ctx, who.ID, idemKey); rerr != nil {
				s.log().WarnContext(ctx, "release idempotency key", "error", rerr)
			}
		}
		return nil, false, fmt.Errorf("create order: %w", err)
	}

	if err := s.cache().PutOrder(ctx, o); err != nil {
		s.log().WarnContext(ctx, "cache order", "order_id", o.ID, "error", err)
	}
	s.publish(ctx, Event{Type: EventOrderCreated, Order: *o, ActorID: who.ID, OccurredAt: now})
	s.log().InfoContext(ctx, "order created", "order_id", o.ID, "owner_id", o.OwnerID, "total", o.Total)
	return o, false, nil
}

// ListOwn returns the caller's orders, newest first.
func (s *Service) ListOwn(ctx context.Context, who Identity) ([]Order, error) {
	out, err := s.Store.ListByOwner(ctx, who.ID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if out == nil {
		out = []Order{}
	}
	return out, nil
}

// Get returns one order to its owner or to an admin.
func (s *Service) Get(ctx context.Context, who Identity, id string) (*Order, error) {
	o, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.OwnedBy(who) && !who.Admin {
		return nil, ErrForbidden
	}
	return o, nil
}

func (s *Service) load(ctx context.Context, id string) (*Order, error) {
	if o, ok, err := s.cache().GetOrder(ctx, id); err != nil {
		s.log().WarnContext(ctx, "read order cache", "order_id", id, "error", err)
	} else if ok {
		return o, nil
	}
	o, err := s.Store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := s.cache().PutOrder(ctx, o); err != nil {
		s.log().WarnContext(ctx, "cache order", "order_id", id, "error", err)
	}
	return o, nil
}

// SetStatus moves an order to any of the known statuses. This is the
// fulfillment path and carries no precondition on the current status.
func (s *Service) SetStatus(ctx context.Context, who Identity, id, status string) (*Order, error) {
	if !s.OpenStatusUpdates && !who.Admin {
		return nil, ErrForbidden
	}
	target, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}
	o, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status == target {
		return o, nil
	}
	return s.transition(ctx, who, o, target, EventOrderStatusChanged)
}

// Cancel is the customer self-service path: only the owner may cancel, and
// only while the order has not shipped.
func (s *Service) Cancel(ctx context.Context, who Identity, id string) (*Order, error) {
	o, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.OwnedBy(who) {
		return nil, ErrForbidden
	}
	if !CanCancel(o.Status) {
		return nil, fmt.Errorf("%w (status %s)", ErrInvalidTransition, o.Status)
	}
	return s.transition(ctx, who, o, StatusCancelled, EventOrderCancelled)
}

// fetch reads from the store, bypassing the cache, before a write.
func (s *Service) fetch(ctx context.Context, id string) (*Order, error) {
	o, err := s.Store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (s *Service) transition(ctx context.Context, who Identity, o *Order, to Status, eventType string) (*Order, error) {
	from, prevVersion := o.Status, o.Version
	now := s.now()
	o.Status = to
	o.Version++
	o.UpdatedAt = now
	if err := s.Store.Update(ctx, o, prevVersion); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}
	if err := s.cache().PutOrder(ctx, o); err != nil {
		s.log().WarnContext(ctx, "refresh order cache", "order_id", o.ID, "error", err)
		if err := s.cache().DeleteOrder(ctx, o.ID); err != nil {
			s.log().WarnContext(ctx, "invalidate order cache", "order_id", o.ID, "error", err)
		}
	}
	s.publish(ctx, Event{Type: eventType, Order: *o, OldStatus: from, ActorID: who.ID, OccurredAt: now})
	s.log().InfoContext(ctx, "order status changed", "order_id", o.ID, "from", from, "to", to, "actor_id", who.ID)
	return o, nil
}

// ListAll returns every order, newest first, with its owner summary. Admin only.
func (s *Service) ListAll(ctx context.Context, who Identity) ([]OrderWithOwner, error) {
	if !who.Admin {
		return nil, ErrForbidden
	}
	all, err := s.Store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all orders: %w", err)
	}

	owners := map[string]OwnerSummary{}
	if s.Owners != nil && len(all) > 0 {
		seen := map[string]bool{}
		ids := make([]string, 0, len(all))
		for _, o := range all {
			if !seen[o.OwnerID] {
				seen[o.OwnerID] = true
				ids = append(ids, o.OwnerID)
			}
		}
		if found, err := s.Owners.Lookup(ctx, ids); err != nil {
			s.log().WarnContext(ctx, "owner lookup failed, listing ids only", "error", err)
		} else {
			owners = found
		}
	}

	out := make([]OrderWithOwner, 0, len(all))
	for _, o := range all {
		owner, ok := owners[o.OwnerID]
		if !ok {
			owner = OwnerSummary{ID: o.OwnerID}
		}
		out = append(out, OrderWithOwner{Order: o, Owner: owner})
	}
	return out, nil
}

// OrderHistory returns the recorded lifecycle events of an order, oldest
// first, under the same access rule as Get.
func (s *Service) OrderHistory(ctx context.Context, who Identity, id string) ([]HistoryEntry, error) {
	if _, err := s.Get(ctx, who, id); err != nil {
		return nil, err
	}
	if s.History == nil {
		return []HistoryEntry{}, nil
	}
	out, err := s.History.List(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list order history: %w", err)
	}
	return out, nil
}

func (s *Service) publish(ctx context.Context, ev Event) {
	if err := s.events().Publish(ctx, ev); err != nil {
		s.log().ErrorContext(ctx, "publish order event", "event_type", ev.Type, "order_id", ev.Order.ID, "error", err)
	}
}
