package events

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

var (
	orderCreated = eventKind{
		name:    "OrderCreated",
		version: 1,
		schema:  "contracts/events/order/OrderCreated.v1.payload.schema.json",
	}
	orderStatusChanged = eventKind{
		name:    "OrderStatusChanged",
		version: 1,
		schema:  "contracts/events/order/OrderStatusChanged.v1.payload.schema.json",
	}
)

type OrderLine struct {
	ItemID     int64           `json:"itemId"`
	ProductID  int64           `json:"productId"`
	ProductSKU string          `json:"productSku"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
}

// OrderCreatedPayload represents the v1 payload schema.
type OrderCreatedPayload struct {
	OrderID     int64           `json:"orderId"`
	UserID      int64           `json:"userId"`
	Status      order.Status    `json:"status"`
	Items       []OrderLine     `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	TotalItems  int             `json:"totalItems"`
	Timestamp   time.Time       `json:"timestamp"`
}

type OrderCreatedEnvelope = EventEnvelope[OrderCreatedPayload]

type OrderStatusChangedPayload struct {
	OrderID   int64        `json:"orderId"`
	From      order.Status `json:"from"`
	To        order.Status `json:"to"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderStatusChangedEnvelope = EventEnvelope[OrderStatusChangedPayload]

// PartitionKey orders all events of one order.
func PartitionKey(orderID int64) string {
	return "order-" + strconv.FormatInt(orderID, 10)
}

// BuildOrderCreatedEnvelope builds an enveloped OrderCreated event.
func BuildOrderCreatedEnvelope(o *order.Order, seq int64, producer string, meta EnvelopeMetadata) OrderCreatedEnvelope {
	s := o.Snapshot()
	items := make([]OrderLine, 0, len(s.Items))
	total := decimal.Zero
	count := 0
	for _, it := range s.Items {
		items = append(items, OrderLine{
			ItemID:     it.ID,
			ProductID:  it.ProductID,
			ProductSKU: it.ProductSKU,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
		})
		total = total.Add(it.TotalPrice())
		count += it.Quantity
	}

	return newEnvelope(orderCreated, PartitionKey(s.ID), seq, producer, meta, time.Now().UTC(), OrderCreatedPayload{
		OrderID:     s.ID,
		UserID:      s.UserID,
		Status:      s.Status,
		Items:       items,
		TotalAmount: total,
		TotalItems:  count,
		Timestamp:   s.CreatedAt,
	})
}

func BuildOrderStatusChangedEnvelope(orderID int64, from, to order.Status, seq int64, producer string, meta EnvelopeMetadata) OrderStatusChangedEnvelope {
	now := time.Now().UTC()
	return newEnvelope(orderStatusChanged, PartitionKey(orderID), seq, producer, meta, now, OrderStatusChangedPayload{
		OrderID:   orderID,
		From:      from,
		To:        to,
		Timestamp: now,
	})
}
