package redisx

import "time"

const (
	// Idempotent checkout: idem:order:create:{owner_id}:{key} -> order_id
	KeyIdemOrderCreate = "idem:order:create:%s:%s"

	// Order snapshot for GET /orders/{id}: hash order:{order_id} -> {v: version, doc: order JSON}
	KeyOrder = "order:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLOrderCache  = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
