package orders

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemStore is an in-process Store and HistoryStore for local runs and tests.
type MemStore struct {
	mu      sync.RWMutex
	orders  map[string]Order
	history map[string][]HistoryEntry
	seen    map[string]bool
}

func NewMemStore() *MemStore {
	return &MemStore{
		orders:  map[string]Order{},
		history: map[string][]HistoryEntry{},
		seen:    map[string]bool{},
	}
}

func clone(o Order) Order {
	o.Items = append([]Item(nil), o.Items...)
	if o.DeliveryDate != nil {
		d := *o.DeliveryDate
		o.DeliveryDate = &d
	}
	return o
}

func (m *MemStore) Create(_ context.Context, o *Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[o.ID]; ok {
		return fmt.Errorf("order %s already exists", o.ID)
	}
	m.orders[o.ID] = clone(*o)
	return nil
}

func (m *MemStore) Get(_ context.Context, id string) (*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := clone(o)
	return &c, nil
}

func (m *MemStore) ListByOwner(_ context.Context, ownerID string) ([]Order, error) {
	return m.list(func(o Order) bool { return o.OwnerID == ownerID }), nil
}

func (m *MemStore) ListAll(_ context.Context) ([]Order, error) {
	return m.list(func(Order) bool { return true }), nil
}

func (m *MemStore) list(keep func(Order) bool) []Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Order, 0)
	for _, o := range m.orders {
		if keep(o) {
			out = append(out, clone(o))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OrderDate.Equal(out[j].OrderDate) {
			return out[i].ID > out[j].ID
		}
		return out[i].OrderDate.After(out[j].OrderDate)
	})
	return out
}

func (m *MemStore) Update(_ context.Context, o *Order, prevVersion int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.orders[o.ID]
	if !ok {
		return ErrNotFound
	}
	if cur.Version != prevVersion {
		return ErrConflict
	}
	m.orders[o.ID] = clone(*o)
	return nil
}

func (m *MemStore) Append(_ context.Context, e HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen[e.EventID] {
		return nil
	}
	m.seen[e.EventID] = true
	m.history[e.OrderID] = append(m.history[e.OrderID], e)
	return nil
}

func (m *MemStore) List(_ context.Context, orderID string) ([]HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := append([]HistoryEntry{}, m.history[orderID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}
