package mongox

import (
	"context"
	"fmt"

	"github.com/ariefcatur/bookstore-orders/internal/orders"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OwnerDirectory reads owner summaries from the storefront's users
// collection, whose ids may be ObjectIDs or plain strings.
type OwnerDirectory struct{ Coll *mongo.Collection }

func NewOwnerDirectory(db *mongo.Database) *OwnerDirectory {
	return &OwnerDirectory{Coll: db.Collection(CollUsers)}
}

type userDoc struct {
	ID       any    `bson:"_id"`
	Username string `bson:"username"`
	Email    string `bson:"email"`
}

func (d *OwnerDirectory) Lookup(ctx context.Context, ids []string) (map[string]orders.OwnerSummary, error) {
	out := make(map[string]orders.OwnerSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make(bson.A, 0, 2*len(ids))
	for _, id := range ids {
		keys = append(keys, id)
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			keys = append(keys, oid)
		}
	}
	cur, err := d.Coll.Find(ctx, bson.M{"_id": bson.M{"$in": keys}},
		options.Find().SetProjection(bson.M{"username": 1, "email": 1}))
	if err != nil {
		return nil, err
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, u := range docs {
		id := idString(u.ID)
		out[id] = orders.OwnerSummary{ID: id, Username: u.Username, Email: u.Email}
	}
	return out, nil
}

func idString(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}
