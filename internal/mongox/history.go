package mongox

import (
	"context"

	"github.com/ariefcatur/bookstore-orders/internal/orders"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// HistoryRepo implements orders.HistoryStore. The event id is the document
// id, so a redelivered event is a duplicate key and is ignored.
type HistoryRepo struct{ Coll *mongo.Collection }

func NewHistoryRepo(db *mongo.Database) *HistoryRepo {
	return &HistoryRepo{Coll: db.Collection(CollHistory)}
}

func (r *HistoryRepo) Append(ctx context.Context, e orders.HistoryEntry) error {
	_, err := r.Coll.InsertOne(ctx, e)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}

func (r *HistoryRepo) List(ctx context.Context, orderID string) ([]orders.HistoryEntry, error) {
	cur, err := r.Coll.Find(ctx, bson.M{"orderId": orderID},
		options.Find().SetSort(bsonD("occurredAt", 1, "_id", 1)))
	if err != nil {
		return nil, err
	}
	out := []orders.HistoryEntry{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
