package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/bookstore-orders/internal/orders"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// OrderStore keeps each order as a JSONB document next to the columns used
// for lookups and ordering.
type OrderStore struct{ DB *pgxpool.Pool }

func (s *OrderStore) Create(ctx context.Context, o *orders.Order) error {
	_, err := s.DB.Exec(ctx, `
		INSERT INTO orders(id, owner_id, status, order_date, version, updated_at, doc)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		o.ID, o.OwnerID, string(o.Status), o.OrderDate, o.Version, o.UpdatedAt, o,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("order %s: %w", o.ID, orders.ErrConflict)
	}
	return err
}

func (s *OrderStore) Get(ctx context.Context, id string) (*orders.Order, error) {
	var o orders.Order
	err := s.DB.QueryRow(ctx, `SELECT doc FROM orders WHERE id=$1`, id).Scan(&o)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, orders.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *OrderStore) ListByOwner(ctx context.Context, ownerID string) ([]orders.Order, error) {
	return s.list(ctx, `SELECT doc FROM orders WHERE owner_id=$1 ORDER BY order_date DESC, id DESC`, ownerID)
}

func (s *OrderStore) ListAll(ctx context.Context) ([]orders.Order, error) {
	return s.list(ctx, `SELECT doc FROM orders ORDER BY order_date DESC, id DESC`)
}

func (s *OrderStore) list(ctx context.Context, q string, args ...any) ([]orders.Order, error) {
	rows, err := s.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []orders.Order{}
	for rows.Next() {
		var o orders.Order
		if err := rows.Scan(&o); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Update writes o only if the stored version is still prevVersion.
func (s *OrderStore) Update(ctx context.Context, o *orders.Order, prevVersion int) error {
	ct, err := s.DB.Exec(ctx, `
		UPDATE orders SET status=$3, version=$4, updated_at=$5, doc=$6
		WHERE id=$1 AND version=$2`,
		o.ID, prevVersion, string(o.Status), o.Version, o.UpdatedAt, o,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	if err := s.DB.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id=$1)`, o.ID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return orders.ErrNotFound
	}
	return orders.ErrConflict
}
