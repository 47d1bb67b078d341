// Package storage selects the order persistence backend named by
// STORE_DRIVER.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ariefcatur/bookstore-orders/internal/config"
	"github.com/ariefcatur/bookstore-orders/internal/mongox"
	"github.com/ariefcatur/bookstore-orders/internal/orders"
	"github.com/ariefcatur/bookstore-orders/internal/postgres"
)

type Backend struct {
	Orders  orders.Store
	History orders.HistoryStore
	Owners  orders.OwnerDirectory // nil for the memory driver
	Close   func()
}

func Open(ctx context.Context, cfg config.Config, log *slog.Logger) (*Backend, error) {
	switch cfg.StoreDriver {
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		log.Info("store ready", "driver", "postgres")
		return &Backend{
			Orders:  &postgres.OrderStore{DB: db},
			History: &postgres.HistoryRepo{DB: db},
			Owners:  &postgres.OwnerDirectory{DB: db},
			Close:   db.Close,
		}, nil

	case "mongo":
		client, err := mongox.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDatabase)
		if err := mongox.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		log.Info("store ready", "driver", "mongo", "database", cfg.MongoDatabase)
		return &Backend{
			Orders:  mongox.NewOrderStore(db),
			History: mongox.NewHistoryRepo(db),
			Owners:  mongox.NewOwnerDirectory(db),
			Close:   func() { _ = client.Disconnect(context.Background()) },
		}, nil

	case "memory":
		log.Warn("using in-memory store; orders are lost on restart")
		m := orders.NewMemStore()
		return &Backend{Orders: m, History: m, Close: func() {}}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
