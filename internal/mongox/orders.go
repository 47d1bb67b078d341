package mongox

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/bookstore-orders/internal/orders"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func bsonD(kv ...any) bson.D {
	d := make(bson.D, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		d = append(d, bson.E{Key: kv[i].(string), Value: kv[i+1]})
	}
	return d
}

// OrderStore implements orders.Store on the orders collection. Documents
// are keyed by the order id.
type OrderStore struct{ Coll *mongo.Collection }

func NewOrderStore(db *mongo.Database) *OrderStore {
	return &OrderStore{Coll: db.Collection(CollOrders)}
}

func (s *OrderStore) Create(ctx context.Context, o *orders.Order) error {
	_, err := s.Coll.InsertOne(ctx, o)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("order %s: %w", o.ID, orders.ErrConflict)
	}
	return err
}

func (s *OrderStore) Get(ctx context.Context, id string) (*orders.Order, error) {
	var o orders.Order
	err := s.Coll.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, orders.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *OrderStore) ListByOwner(ctx context.Context, ownerID string) ([]orders.Order, error) {
	return s.find(ctx, bson.M{"ownerId": ownerID})
}

func (s *OrderStore) ListAll(ctx context.Context) ([]orders.Order, error) {
	return s.find(ctx, bson.M{})
}

func (s *OrderStore) find(ctx context.Context, filter bson.M) ([]orders.Order, error) {
	opts := options.Find().SetSort(bsonD("orderDate", -1, "_id", -1))
	cur, err := s.Coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := []orders.Order{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces the document only if its version is still prevVersion.
func (s *OrderStore) Update(ctx context.Context, o *orders.Order, prevVersion int) error {
	res, err := s.Coll.ReplaceOne(ctx, bson.M{"_id": o.ID, "version": prevVersion}, o)
	if err != nil {
		return err
	}
	if res.MatchedCount == 1 {
		return nil
	}
	n, err := s.Coll.CountDocuments(ctx, bson.M{"_id": o.ID})
	if err != nil {
		return err
	}
	if n == 0 {
		return orders.ErrNotFound
	}
	return orders.ErrConflict
}
