package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID int64      `json:"order_id"`
	UserID  int64      `json:"user_id"`
	Items   []CartItem `json:"items"`
	Total   string     `json:"total"`
	Estado  Status     `json:"estado"`
}

type OrderStatusChangedPayload struct {
	OrderID int64  `json:"order_id"`
	Estado  Status `json:"estado"`
}
