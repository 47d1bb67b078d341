package postgres

import (
	"context"

	"github.com/ariefcatur/bookstore-orders/internal/orders"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OwnerDirectory resolves order owners against the users table.
type OwnerDirectory struct{ DB *pgxpool.Pool }

func (d *OwnerDirectory) Lookup(ctx context.Context, ids []string) (map[string]orders.OwnerSummary, error) {
	out := make(map[string]orders.OwnerSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := d.DB.Query(ctx, `SELECT id, username, email FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var u orders.OwnerSummary
		if err := rows.Scan(&u.ID, &u.Username, &u.Email); err != nil {
			return nil, err
		}
		out[u.ID] = u
	}
	return out, rows.Err()
}
