package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/rairai/go-order-fanout/internal/kafka"
	"github.com/rairai/go-order-fanout/internal/orders"
	"github.com/rairai/go-order-fanout/internal/redisx"
)

// Publisher is the producer-side contract the intake needs.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// OrdersHandler accepts new orders and publishes them as events keyed
// by order id. Fire-and-forget: downstream outcomes are never reported
// back to the caller.
type OrdersHandler struct {
	Producer Publisher
	Redis    *redis.Client // nil disables the duplicate fast path
	Log      *zap.Logger
}

type CreateOrderReq struct {
	ID       string             `json:"id"`
	Customer string             `json:"customer"`
	Items    []orders.OrderLine `json:"items"`
	Total    *float64           `json:"total,omitempty"`
}

type CreateOrderResp struct {
	OrderID   string `json:"order_id"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.createOrder)
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Customer == "" || len(req.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}

	o := &orders.Order{
		ID:        req.ID,
		Customer:  req.Customer,
		Items:     req.Items,
		Total:     req.Total,
		CreatedAt: time.Now().UTC(),
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if err := o.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Resubmissions of the same id are acknowledged without a second
	// publish. Consumers stay idempotent regardless; this only spares
	// the topic an obvious repeat.
	if h.Redis != nil {
		key := fmt.Sprintf(redisx.KeyIdemOrderAccept, o.ID)
		set, err := h.Redis.SetNX(ctx, key, 1, redisx.TTLIdempotency).Result()
		if err == nil && !set {
			writeJSON(w, http.StatusAccepted, CreateOrderResp{OrderID: o.ID, Duplicate: true})
			return
		}
	}

	h.Producer.Publish(orders.PartitionKey(o.ID), kafkax.MustMarshal(o))
	h.Log.Info("order accepted", zap.String("order_id", o.ID), zap.String("customer", o.Customer))
	writeJSON(w, http.StatusAccepted, CreateOrderResp{OrderID: o.ID})
}
