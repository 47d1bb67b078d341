package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ariefcatur/bookstore-orders/internal/orders"
	"github.com/redis/go-redis/v9"
)

// OrderCache implements orders.Cache on Redis.
type OrderCache struct {
	RDB *redis.Client
}

// putNewer writes the snapshot only when the cached version is older, so a
// reader that loaded an order before a status write cannot overwrite the
// newer copy. KEYS[1]=key ARGV[1]=version ARGV[2]=doc ARGV[3]=ttl ms
var putNewer = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'v')
if cur and tonumber(cur) >= tonumber(ARGV[1]) then
	return 0
end
redis.call('HSET', KEYS[1], 'v', ARGV[1], 'doc', ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return 1
`)

func (c *OrderCache) GetOrder(ctx context.Context, id string) (*orders.Order, bool, error) {
	b, err := c.RDB.HGet(ctx, fmt.Sprintf(KeyOrder, id), "doc").Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var o orders.Order
	if err := json.Unmarshal(b, &o); err != nil {
		return nil, false, fmt.Errorf("decode cached order %s: %w", id, err)
	}
	return &o, true, nil
}

func (c *OrderCache) PutOrder(ctx context.Context, o *orders.Order) error {
	b, err := json.Marshal(o)
	if err != nil {
		return err
	}
	ttl := TTLOrderCache.Milliseconds()
	return putNewer.Run(ctx, c.RDB, []string{fmt.Sprintf(KeyOrder, o.ID)}, o.Version, b, ttl).Err()
}

func (c *OrderCache) DeleteOrder(ctx context.Context, id string) error {
	return c.RDB.Del(ctx, fmt.Sprintf(KeyOrder, id)).Err()
}

func (c *OrderCache) ClaimIdempotencyKey(ctx context.Context, ownerID, key, orderID string) (string, bool, error) {
	k := fmt.Sprintf(KeyIdemOrderCreate, ownerID, key)
	ok, err := c.RDB.SetNX(ctx, k, orderID, TTLIdempotency).Result()
	if err != nil {
		return "", false, err
	}
	if ok {
		return "", true, nil
	}
	existing, err := c.RDB.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET; try once more
		ok, err = c.RDB.SetNX(ctx, k, orderID, TTLIdempotency).Result()
		if err != nil {
			return "", false, err
		}
		if ok {
			return "", true, nil
		}
		existing, err = c.RDB.Get(ctx, k).Result()
	}
	if err != nil {
		return "", false, err
	}
	return existing, false, nil
}

func (c *OrderCache) ReleaseIdempotencyKey(ctx context.Context, ownerID, key string) error {
	return c.RDB.Del(ctx, fmt.Sprintf(KeyIdemOrderCreate, ownerID, key)).Err()
}
