package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	cfg.MaxConns = 8
	cfg.MinConns = 1
	cfg.HealthCheckPeriod = 30 * time.Second
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return pool, nil
}

// schema is idempotent. The full order lives in doc; the remaining columns
// are what the queries filter and sort on.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS orders (
		id          TEXT PRIMARY KEY,
		owner_id    TEXT        NOT NULL,
		status      TEXT        NOT NULL,
		order_date  TIMESTAMPTZ NOT NULL,
		version     INT         NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL,
		doc         JSONB       NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS orders_owner_date_idx ON orders (owner_id, order_date DESC)`,
	`CREATE INDEX IF NOT EXISTS orders_date_idx ON orders (order_date DESC)`,
	`CREATE TABLE IF NOT EXISTS order_history (
		event_id    TEXT PRIMARY KEY,
		order_id    TEXT        NOT NULL,
		owner_id    TEXT        NOT NULL,
		event_type  TEXT        NOT NULL,
		from_status TEXT        NOT NULL DEFAULT '',
		to_status   TEXT        NOT NULL,
		actor_id    TEXT        NOT NULL DEFAULT '',
		occurred_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS order_history_order_idx ON order_history (order_id, occurred_at)`,
	`CREATE TABLE IF NOT EXISTS users (
		id       TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		email    TEXT NOT NULL
	)`,
}

func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
