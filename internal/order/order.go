// Package order aggregates purchased items and tracks an order through its
// status lifecycle.
package order

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/money"
)

// Order is safe for concurrent use. Totals are computed from the current
// items on every call.
type Order struct {
	mu sync.RWMutex

	id              int64
	userID          int64
	status          Status
	items           []Item
	shippingAddress string
	billingAddress  string
	notes           string
	createdAt       time.Time
	shippedAt       *time.Time
	deliveredAt     *time.Time
}

// Params carries the fields of a new order. A zero CreatedAt means now.
type Params struct {
	ID              int64
	UserID          int64
	ShippingAddress string
	BillingAddress  string
	Notes           string
	CreatedAt       time.Time
}

// New returns a pending order without items.
func New(p Params) *Order {
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return &Order{
		id:              p.ID,
		userID:          p.UserID,
		status:          StatusPending,
		items:           []Item{},
		shippingAddress: p.ShippingAddress,
		billingAddress:  p.BillingAddress,
		notes:           p.Notes,
		createdAt:       createdAt,
	}
}

// Snapshot is a point-in-time copy of an order's state, used by storage.
type Snapshot struct {
	ID              int64
	UserID          int64
	Status          Status
	Items           []Item
	ShippingAddress string
	BillingAddress  string
	Notes           string
	CreatedAt       time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
}

// FromSnapshot rebuilds an order, rejecting unknown statuses and invalid items.
func FromSnapshot(s Snapshot) (*Order, error) {
	if !s.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, string(s.Status))
	}
	items := make([]Item, 0, len(s.Items))
	for _, it := range s.Items {
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", it.ID, err)
		}
		items = append(items, it)
	}
	return &Order{
		id:              s.ID,
		userID:          s.UserID,
		status:          s.Status,
		items:           items,
		shippingAddress: s.ShippingAddress,
		billingAddress:  s.BillingAddress,
		notes:           s.Notes,
		createdAt:       s.CreatedAt,
		shippedAt:       s.ShippedAt,
		deliveredAt:     s.DeliveredAt,
	}, nil
}

func (o *Order) Snapshot() Snapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return Snapshot{
		ID:              o.id,
		UserID:          o.userID,
		Status:          o.status,
		Items:           append([]Item(nil), o.items...),
		ShippingAddress: o.shippingAddress,
		BillingAddress:  o.billingAddress,
		Notes:           o.notes,
		CreatedAt:       o.createdAt,
		ShippedAt:       o.shippedAt,
		DeliveredAt:     o.deliveredAt,
	}
}

func (o *Order) ID() int64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.id
}

func (o *Order) setID(id int64) {
	o.mu.Lock()
	o.id = id
	o.mu.Unlock()
}

func (o *Order) UserID() int64 { return o.userID }

func (o *Order) CreatedAt() time.Time { return o.createdAt }

func (o *Order) Status() Status {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.status
}

// Items returns a copy of the items in insertion order.
func (o *Order) Items() []Item {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return append([]Item(nil), o.items...)
}

// AddItem appends it as given; duplicates are neither merged nor rejected.
// Items can only be added while the order is pending.
func (o *Order) AddItem(it Item) error {
	if err := it.Validate(); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status != StatusPending {
		return ErrNotPending
	}
	o.items = append(o.items, it)
	return nil
}

// AddProduct appends a new item for a product and assigns it the next item id.
func (o *Order) AddProduct(productID int64, name, sku string, quantity int, unitPrice decimal.Decimal) (Item, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status != StatusPending {
		return Item{}, ErrNotPending
	}

	it, err := NewItem(o.nextItemIDLocked(), productID, name, sku, quantity, unitPrice)
	if err != nil {
		return Item{}, err
	}
	o.items = append(o.items, it)
	return it, nil
}

// RemoveItem drops the first item with itemID and reports whether one was
// removed. Nothing is removed once the order has left pending.
func (o *Order) RemoveItem(itemID int64) bool {
	return o.Remove(itemID) == nil
}

// Remove is RemoveItem with the reason: ErrNotPending or ErrItemNotFound.
func (o *Order) Remove(itemID int64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status != StatusPending {
		return ErrNotPending
	}
	for i, it := range o.items {
		if it.ID == itemID {
			o.items = append(o.items[:i], o.items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

func (o *Order) nextItemIDLocked() int64 {
	var highest int64
	for _, it := range o.items {
		if it.ID > highest {
			highest = it.ID
		}
	}
	return highest + 1
}

func (o *Order) TotalAmount() decimal.Decimal {
	o.mu.RLock()
	defer o.mu.RUnlock()
	total := decimal.Zero
	for _, it := range o.items {
		total = total.Add(it.TotalPrice())
	}
	return total
}

func (o *Order) TotalItems() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	n := 0
	for _, it := range o.items {
		n += it.Quantity
	}
	return n
}

func (o *Order) FormattedTotalAmount() string {
	return money.Format(o.TotalAmount())
}

// Transition moves the order to next, stamping shipped/delivered times with
// at (now when zero).
func (o *Order) Transition(next Status, at time.Time) error {
	if !next.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, string(next))
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.status, next)
	}
	o.status = next
	switch next {
	case StatusShipped:
		o.shippedAt = &at
	case StatusDelivered:
		o.deliveredAt = &at
	}
	return nil
}

type View struct {
	ID                   int64      `json:"id"`
	UserID               int64      `json:"user_id"`
	Status               Status     `json:"status"`
	TotalAmount          float64    `json:"total_amount"`
	FormattedTotalAmount string     `json:"formatted_total_amount"`
	TotalItems           int        `json:"total_items"`
	Items                []Item     `json:"items"`
	ShippingAddress      *string    `json:"shipping_address"`
	BillingAddress       *string    `json:"billing_address"`
	OrderDate            time.Time  `json:"order_date"`
	ShippedDate          *time.Time `json:"shipped_date"`
	DeliveredDate        *time.Time `json:"delivered_date"`
	Notes                *string    `json:"notes"`
}

func (o *Order) View() View {
	s := o.Snapshot()
	total := decimal.Zero
	count := 0
	for _, it := range s.Items {
		total = total.Add(it.TotalPrice())
		count += it.Quantity
	}
	items := s.Items
	if items == nil {
		items = []Item{}
	}
	return View{
		ID:                   s.ID,
		UserID:               s.UserID,
		Status:               s.Status,
		TotalAmount:          money.Float(total),
		FormattedTotalAmount: money.Format(total),
		TotalItems:           count,
		Items:                items,
		ShippingAddress:      nullable(s.ShippingAddress),
		BillingAddress:       nullable(s.BillingAddress),
		OrderDate:            s.CreatedAt,
		ShippedDate:          s.ShippedAt,
		DeliveredDate:        s.DeliveredAt,
		Notes:                nullable(s.Notes),
	}
}

func (o *Order) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.View())
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
