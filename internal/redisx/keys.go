package redisx

import "time"

const (
	// Catalog cache: product:{id} -> JSON product, products:all -> JSON list
	KeyProduct     = "product:%d"
	KeyProductsAll = "products:all"

	// Order status cache: order_status:{order_id} -> {"estado": "..."}
	KeyOrderStatus = "order_status:%d"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLProductCache = 5 * time.Minute
	TTLStatusCache  = 5 * time.Minute
	TTLDedup        = 48 * time.Hour
)
