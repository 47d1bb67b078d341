package mongox

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	CollOrders  = "orders"
	CollHistory = "order_history"
	CollUsers   = "users"
)

func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the indexes the order queries rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(CollOrders).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bsonD("ownerId", 1, "orderDate", -1)},
		{Keys: bsonD("orderDate", -1)},
	})
	if err != nil {
		return fmt.Errorf("orders indexes: %w", err)
	}
	_, err = db.Collection(CollHistory).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bsonD("orderId", 1, "occurredAt", 1),
	})
	if err != nil {
		return fmt.Errorf("history indexes: %w", err)
	}
	return nil
}
