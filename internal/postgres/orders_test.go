package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ariefcatur/bookstore-orders/internal/orders"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPool connects to TEST_POSTGRES_DSN or skips.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := Connect(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, EnsureSchema(ctx, pool))
	t.Cleanup(pool.Close)
	return pool
}

func sampleOrder(owner string, at time.Time) *orders.Order {
	return &orders.Order{
		ID:      uuid.NewString(),
		OwnerID: owner,
		Items:   []orders.Item{{BookID: "b1", Title: "Dune", UnitPrice: 10, Quantity: 2}},
		ShippingAddress: orders.ShippingAddress{
			FullName: "Nimal Perera", Email: "nimal@example.com", Phone: "0771234567",
			Address: "12 Galle Road", City: "Colombo", PostalCode: "00300", Country: "Sri Lanka",
		},
		PaymentMethod: orders.PaymentCard,
		Subtotal:      20,
		Tax:           2,
		Total:         22,
		Status:        orders.StatusPending,
		OrderDate:     at,
		Version:       1,
		UpdatedAt:     at,
	}
}

func TestOrderStore(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	s := &OrderStore{DB: pool}
	owner := "u-" + uuid.NewString()
	base := time.Now().UTC().Truncate(time.Millisecond)

	first := sampleOrder(owner, base)
	second := sampleOrder(owner, base.Add(time.Minute))
	require.NoError(t, s.Create(ctx, first))
	require.NoError(t, s.Create(ctx, second))
	assert.ErrorIs(t, s.Create(ctx, first), orders.ErrConflict)

	got, err := s.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Items, got.Items)
	assert.Equal(t, 22.0, got.Total)

	_, err = s.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, orders.ErrNotFound)

	list, err := s.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	got.Status, got.Version = orders.StatusShipped, 2
	require.NoError(t, s.Update(ctx, got, 1))
	assert.ErrorIs(t, s.Update(ctx, got, 1), orders.ErrConflict)
	missing := sampleOrder(owner, base)
	assert.ErrorIs(t, s.Update(ctx, missing, 1), orders.ErrNotFound)

	got, err = s.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, orders.StatusShipped, got.Status)
	assert.Equal(t, 2, got.Version)
}

func TestHistoryRepo(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	r := &HistoryRepo{DB: pool}
	orderID := uuid.NewString()
	at := time.Now().UTC().Truncate(time.Millisecond)

	created := orders.HistoryEntry{EventID: uuid.NewString(), OrderID: orderID, OwnerID: "u1",
		EventType: orders.EventOrderCreated, ToStatus: orders.StatusPending, OccurredAt: at}
	cancelled := orders.HistoryEntry{EventID: uuid.NewString(), OrderID: orderID, OwnerID: "u1",
		EventType: orders.EventOrderCancelled, FromStatus: orders.StatusPending, ToStatus: orders.StatusCancelled,
		ActorID: "u1", OccurredAt: at.Add(time.Second)}
	require.NoError(t, r.Append(ctx, cancelled))
	require.NoError(t, r.Append(ctx, created))
	require.NoError(t, r.Append(ctx, created))

	list, err := r.List(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, created.EventID, list[0].EventID)
	assert.Equal(t, orders.StatusCancelled, list[1].ToStatus)
}

func TestOwnerDirectory(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	id := "u-" + uuid.NewString()
	_, err := pool.Exec(ctx, `INSERT INTO users(id, username, email) VALUES ($1, 'nimal', 'nimal@example.com')`, id)
	require.NoError(t, err)

	got, err := (&OwnerDirectory{DB: pool}).Lookup(ctx, []string{id, "u-missing"})
	require.NoError(t, err)
	assert.Equal(t, orders.OwnerSummary{ID: id, Username: "nimal", Email: "nimal@example.com"}, got[id])
	assert.NotContains(t, got, "u-missing")
}
