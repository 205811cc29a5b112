package order

import (
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/money"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrNegativePrice   = errors.New("unit price must not be negative")
	ErrItemNotFound    = errors.New("order item not found")
	ErrNotPending      = errors.New("items can only be changed while the order is pending")
)

// Item is one product line of an order. Items are replaced, never edited.
type Item struct {
	ID          int64
	ProductID   int64
	ProductName string
	ProductSKU  string
	Quantity    int
	UnitPrice   decimal.Decimal
}

func NewItem(id, productID int64, productName, productSKU string, quantity int, unitPrice decimal.Decimal) (Item, error) {
	it := Item{
		ID:          id,
		ProductID:   productID,
		ProductName: productName,
		ProductSKU:  productSKU,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	}
	if err := it.Validate(); err != nil {
		return Item{}, err
	}
	return it, nil
}

func (it Item) Validate() error {
	if it.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if it.UnitPrice.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

func (it Item) TotalPrice() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

func (it Item) FormattedUnitPrice() string  { return money.Format(it.UnitPrice) }
func (it Item) FormattedTotalPrice() string { return money.Format(it.TotalPrice()) }

type ItemView struct {
	ID                  int64   `json:"id"`
	ProductID           int64   `json:"product_id"`
	ProductName         string  `json:"product_name"`
	ProductSKU          string  `json:"product_sku"`
	Quantity            int     `json:"quantity"`
	UnitPrice           float64 `json:"unit_price"`
	TotalPrice          float64 `json:"total_price"`
	FormattedUnitPrice  string  `json:"formatted_unit_price"`
	FormattedTotalPrice string  `json:"formatted_total_price"`
}

func (it Item) View() ItemView {
	return ItemView{
		ID:                  it.ID,
		ProductID:           it.ProductID,
		ProductName:         it.ProductName,
		ProductSKU:          it.ProductSKU,
		Quantity:            it.Quantity,
		UnitPrice:           money.Float(it.UnitPrice),
		TotalPrice:          money.Float(it.TotalPrice()),
		FormattedUnitPrice:  it.FormattedUnitPrice(),
		FormattedTotalPrice: it.FormattedTotalPrice(),
	}
}

func (it Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(it.View())
}
