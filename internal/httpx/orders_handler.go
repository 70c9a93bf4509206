package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/dmtzv/ecommerce-api/internal/kafka"
	"github.com/dmtzv/ecommerce-api/internal/orders"
)

// OrderStore is the slice of the orders repo the handler consumes.
type OrderStore interface {
	CreateOrderTx(ctx context.Context, userID int64, items []orders.CartItem) (*orders.Order, error)
	FindByID(ctx context.Context, orderID int64) (*orders.OrderDetail, error)
	FindByUser(ctx context.Context, userID int64) ([]orders.OrderSummary, error)
	FindAll(ctx context.Context) ([]orders.OrderSummary, error)
	UpdateStatus(ctx context.Context, orderID int64, estado orders.Status) (*orders.Order, error)
}

// Publisher is satisfied by the kafka producer; nil disables events.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Invalidator drops product cache entries after stock changed.
type Invalidator interface {
	Invalidate(ctx context.Context, ids ...int64)
}

type OrdersHandler struct {
	Store          OrderStore
	ProducerOrder  Publisher // order.created
	ProducerStatus Publisher // order.status.changed
	Cache          Invalidator
	Service        string
	Debug          bool
}

type createOrderReq struct {
	Items []orders.CartItem `json:"items" validate:"required,min=1,dive"`
}

type updateStatusReq struct {
	Estado orders.Status `json:"estado" validate:"required"`
}

type orderResp struct {
	ID        int64     `json:"id"`
	Total     string    `json:"total"`
	Estado    string    `json:"estado"`
	CreatedAt time.Time `json:"created_at"`
}

func toOrderResp(o *orders.Order) orderResp {
	return orderResp{
		ID:        o.ID,
		Total:     o.Total.StringFixed(2),
		Estado:    string(o.Estado),
		CreatedAt: o.CreatedAt,
	}
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "datos de entrada inválidos")
		return
	}
	u := UserFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Store.CreateOrderTx(ctx, u.ID, req.Items)
	if err != nil {
		writeDomainError(w, err, h.Debug)
		return
	}

	if h.Cache != nil {
		ids := make([]int64, 0, len(req.Items))
		for _, it := range req.Items {
			ids = append(ids, it.ProductID)
		}
		h.Cache.Invalidate(ctx, ids...)
	}
	h.publish(h.ProducerOrder, orders.EventOrderCreated, o.ID,
		r.Header.Get("X-Request-Id"),
		orders.OrderCreatedPayload{
			OrderID: o.ID,
			UserID:  o.UserID,
			Items:   req.Items,
			Total:   o.Total.StringFixed(2),
			Estado:  o.Estado,
		})

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "pedido creado exitosamente",
		"order":   toOrderResp(o),
	})
}

// listOrders: admins see every order, clients only their own.
func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	u := UserFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var (
		list []orders.OrderSummary
		err  error
	)
	if u.IsAdmin() {
		list, err = h.Store.FindAll(ctx)
	} else {
		list, err = h.Store.FindByUser(ctx, u.ID)
	}
	if err != nil {
		writeDomainError(w, err, h.Debug)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(list),
		"orders":  list,
	})
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id inválido")
		return
	}
	u := UserFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	d, err := h.Store.FindByID(ctx, id)
	if err != nil {
		writeDomainError(w, err, h.Debug)
		return
	}
	if !u.IsAdmin() && d.UserID != u.ID {
		writeError(w, http.StatusForbidden, "no tienes permisos para ver este pedido")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"order":   d,
	})
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id inválido")
		return
	}
	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Store.UpdateStatus(ctx, id, req.Estado)
	if err != nil {
		writeDomainError(w, err, h.Debug)
		return
	}

	h.publish(h.ProducerStatus, orders.EventOrderStatusChanged, o.ID,
		r.Header.Get("X-Request-Id"),
		orders.OrderStatusChangedPayload{OrderID: o.ID, Estado: o.Estado})

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "estado del pedido actualizado exitosamente",
		"order":   toOrderResp(o),
	})
}

func (h *OrdersHandler) publish(p Publisher, eventType string, orderID int64, traceID string, payload any) {
	if p == nil {
		return
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       traceID,
		CorrelationID: strconv.FormatInt(orderID, 10),
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
