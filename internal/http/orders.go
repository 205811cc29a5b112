package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/idempotency"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	idempotencyScope     = "orders"
)

type orderItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type createOrderRequest struct {
	UserID          int64              `json:"user_id"`
	Items           []orderItemRequest `json:"items"`
	ShippingAddress string             `json:"shipping_address"`
	BillingAddress  string             `json:"billing_address"`
	Notes           string             `json:"notes"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	orders, err := h.orders.List(ctx)
	if err != nil {
		h.log(r).Error("list orders failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	if orders == nil {
		orders = []*order.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := h.loadOrder(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// CreateOrder builds a pending order from the requested products. Unknown
// products are skipped. A repeated Idempotency-Key returns the order created
// by the first request.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.UserID <= 0 {
		writeError(w, http.StatusBadRequest, missingFieldsMessage([]string{"user_id"}))
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()
	log := h.log(r)

	key := r.Header.Get(HeaderIdempotencyKey)
	if key != "" {
		if prev, ok := h.replay(ctx, key); ok {
			w.Header().Set("Idempotent-Replayed", "true")
			writeJSON(w, http.StatusCreated, prev)
			return
		}
		locked, err := h.idem.TryLock(ctx, idempotencyScope, key)
		if err != nil {
			log.Error("idempotency lock failed", "key", key, "err", err)
			writeError(w, http.StatusInternalServerError, "failed to create order")
			return
		}
		if !locked {
			// The holder may have finished between the first recall and the lock.
			if prev, ok := h.replay(ctx, key); ok {
				w.Header().Set("Idempotent-Replayed", "true")
				writeJSON(w, http.StatusCreated, prev)
				return
			}
			writeError(w, http.StatusConflict, idempotency.ErrInFlight.Error())
			return
		}
	}

	o, status, msg := h.createOrder(ctx, req)
	if o == nil {
		if key != "" {
			if err := h.idem.Release(ctx, idempotencyScope, key); err != nil {
				log.Warn("idempotency release failed", "key", key, "err", err)
			}
		}
		writeError(w, status, msg)
		return
	}

	if key != "" {
		if err := h.idem.Remember(ctx, idempotencyScope, key, strconv.FormatInt(o.ID(), 10)); err != nil {
			log.Warn("idempotency remember failed", "key", key, "order_id", o.ID(), "err", err)
		}
	}
	if h.metrics != nil {
		h.metrics.OrdersCreated.Inc()
	}

	meta := events.EnvelopeMetadata{CorrelationID: GetCorrelationID(r.Context())}
	if err := h.publisher.PublishOrderCreated(ctx, o, meta); err != nil {
		log.Warn("publish OrderCreated failed", "order_id", o.ID(), "err", err)
	}

	log.Info("order created", "order_id", o.ID(), "user_id", o.UserID(), "items", o.TotalItems())
	writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) replay(ctx context.Context, key string) (*order.Order, bool) {
	val, ok, err := h.idem.Recall(ctx, idempotencyScope, key)
	if err != nil || !ok {
		return nil, false
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return nil, false
	}
	o, err := h.orders.GetByID(ctx, id)
	if err != nil {
		return nil, false
	}
	return o, true
}

// createOrder returns the stored order, or nil with the response status and
// message to send.
func (h *Handler) createOrder(ctx context.Context, req createOrderRequest) (*order.Order, int, string) {
	o := order.New(order.Params{
		UserID:          req.UserID,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		Notes:           req.Notes,
		CreatedAt:       h.now(),
	})

	for _, it := range req.Items {
		p, err := h.catalog.GetProduct(ctx, it.ProductID)
		if errors.Is(err, catalog.ErrNotFound) {
			continue
		}
		if err != nil {
			h.logger.Error("load product failed", "product_id", it.ProductID, "err", err)
			return nil, http.StatusInternalServerError, "failed to create order"
		}
		if _, err := o.AddProduct(p.ID, p.Name, p.SKU, it.Quantity, p.Price); err != nil {
			return nil, http.StatusBadRequest, err.Error()
		}
	}

	if err := h.orders.Create(ctx, o); err != nil {
		h.logger.Error("create order failed", "user_id", req.UserID, "err", err)
		return nil, http.StatusInternalServerError, "failed to create order"
	}
	return o, 0, ""
}

func (h *Handler) AddOrderItem(w http.ResponseWriter, r *http.Request) {
	o, ok := h.loadOrder(w, r)
	if !ok {
		return
	}

	var req orderItemRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	p, err := h.catalog.GetProduct(ctx, req.ProductID)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		h.log(r).Error("load product failed", "product_id", req.ProductID, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to add item")
		return
	}

	updated, err := h.orders.Update(ctx, o.ID(), func(o *order.Order) error {
		_, err := o.AddProduct(p.ID, p.Name, p.SKU, req.Quantity, p.Price)
		return err
	})
	if err != nil {
		h.writeUpdateError(w, r, o.ID(), err, "failed to add item")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) RemoveOrderItem(w http.ResponseWriter, r *http.Request) {
	o, ok := h.loadOrder(w, r)
	if !ok {
		return
	}
	itemID, ok := pathID(r, "itemId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	updated, err := h.orders.Update(ctx, o.ID(), func(o *order.Order) error {
		return o.Remove(itemID)
	})
	if err != nil {
		h.writeUpdateError(w, r, o.ID(), err, "failed to remove item")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	o, ok := h.loadOrder(w, r)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	next, err := order.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid status '"+req.Status+"'")
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	var prev order.Status
	updated, err := h.orders.Update(ctx, o.ID(), func(o *order.Order) error {
		prev = o.Status()
		return o.Transition(next, h.now())
	})
	if errors.Is(err, order.ErrInvalidTransition) {
		writeError(w, http.StatusConflict, "Cannot change status from "+string(prev)+" to "+string(next))
		return
	}
	if err != nil {
		h.writeUpdateError(w, r, o.ID(), err, "failed to update status")
		return
	}

	meta := events.EnvelopeMetadata{CorrelationID: GetCorrelationID(r.Context())}
	if err := h.publisher.PublishOrderStatusChanged(ctx, updated.ID(), prev, next, meta); err != nil {
		h.log(r).Warn("publish OrderStatusChanged failed", "order_id", updated.ID(), "err", err)
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) writeUpdateError(w http.ResponseWriter, r *http.Request, id int64, err error, failMsg string) {
	switch {
	case errors.Is(err, order.ErrNotFound):
		writeError(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, order.ErrNotPending):
		writeError(w, http.StatusConflict, "Items can only be changed while the order is pending")
	case errors.Is(err, order.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "Item not found")
	case errors.Is(err, order.ErrInvalidQuantity), errors.Is(err, order.ErrNegativePrice):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log(r).Error("update order failed", "order_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, failMsg)
	}
}

func (h *Handler) loadOrder(w http.ResponseWriter, r *http.Request) (*order.Order, bool) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return nil, false
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	o, err := h.orders.GetByID(ctx, id)
	if errors.Is(err, order.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Order not found")
		return nil, false
	}
	if err != nil {
		h.log(r).Error("get order failed", "order_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to get order")
		return nil, false
	}
	return o, true
}
