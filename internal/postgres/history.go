package postgres

import (
	"context"

	"github.com/ariefcatur/bookstore-orders/internal/orders"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HistoryRepo implements orders.HistoryStore. Replayed events are ignored
// by event id.
type HistoryRepo struct{ DB *pgxpool.Pool }

func (r *HistoryRepo) Append(ctx context.Context, e orders.HistoryEntry) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO order_history(event_id, order_id, owner_id, event_type, from_status, to_status, actor_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (event_id) DO NOTHING`,
		e.EventID, e.OrderID, e.OwnerID, e.EventType, string(e.FromStatus), string(e.ToStatus), e.ActorID, e.OccurredAt,
	)
	return err
}

func (r *HistoryRepo) List(ctx context.Context, orderID string) ([]orders.HistoryEntry, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT event_id, order_id, owner_id, event_type, from_status, to_status, actor_id, occurred_at
		FROM order_history WHERE order_id=$1 ORDER BY occurred_at ASC, event_id ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []orders.HistoryEntry{}
	for rows.Next() {
		var e orders.HistoryEntry
		var from, to string
		if err := rows.Scan(&e.EventID, &e.OrderID, &e.OwnerID, &e.EventType, &from, &to, &e.ActorID, &e.OccurredAt); err != nil {
			return nil, err
		}
		e.FromStatus, e.ToStatus = orders.Status(from), orders.Status(to)
		out = append(out, e)
	}
	return out, rows.Err()
}
