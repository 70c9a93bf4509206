package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/dmtzv/ecommerce-api/internal/kafka"
	"github.com/dmtzv/ecommerce-api/internal/orders"
	"github.com/dmtzv/ecommerce-api/internal/redisx"
)

// Service consumes order lifecycle events and keeps the redis order-status
// cache warm, so status polling does not hit postgres.
type Service struct {
	Redis       *redis.Client
	ServiceName string
}

// HandleEvent is mounted as the consumer handler for both order topics.
func (s *Service) HandleEvent(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	if seen, _ := redisx.Exists(ctx, s.Redis, dkey); seen {
		return nil
	}

	switch env.EventType {
	case orders.EventOrderCreated:
		p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
		if err != nil {
			return err
		}
		if err := s.cacheStatus(ctx, p.OrderID, p.Estado); err != nil {
			return err
		}
		log.Printf("order %d created, total=%s items=%d", p.OrderID, p.Total, len(p.Items))
	case orders.EventOrderStatusChanged:
		p, err := kafkax.UnwrapPayload[orders.OrderStatusChangedPayload](env.Payload)
		if err != nil {
			return err
		}
		if err := s.cacheStatus(ctx, p.OrderID, p.Estado); err != nil {
			return err
		}
		log.Printf("order %d status -> %s", p.OrderID, p.Estado)
	default:
		return nil // ignore
	}

	return s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
}

func (s *Service) cacheStatus(ctx context.Context, orderID int64, estado orders.Status) error {
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	body, _ := json.Marshal(map[string]string{"estado": string(estado)})
	return s.Redis.Set(ctx, key, body, redisx.TTLStatusCache).Err()
}
