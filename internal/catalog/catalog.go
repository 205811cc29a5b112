// Package catalog holds categories and the products sold under them.
package catalog

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/money"
)

var (
	ErrNegativePrice = errors.New("price must not be negative")
	ErrNegativeStock = errors.New("stock quantity must not be negative")
)

type Category struct {
	ID          int64
	Name        string
	Description string
	ParentID    *int64
	IsActive    bool
	CreatedAt   time.Time
}

// NewCategory returns an active category; a zero createdAt means now.
func NewCategory(id int64, name, description string, parentID *int64, createdAt time.Time) Category {
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return Category{
		ID:          id,
		Name:        name,
		Description: description,
		ParentID:    parentID,
		IsActive:    true,
		CreatedAt:   createdAt,
	}
}

type CategoryView struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	ParentID    *int64    `json:"parent_id"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func (c Category) View() CategoryView {
	return CategoryView{
		ID:          c.ID,
		Name:        c.Name,
		Description: nullable(c.Description),
		ParentID:    c.ParentID,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
	}
}

func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.View())
}

type Product struct {
	ID            int64
	Name          string
	Description   string
	Price         decimal.Decimal
	SKU           string
	CategoryID    int64
	StockQuantity int
	IsActive      bool
	Images        []string
	Tags          []string
	Weight        *float64
	Dimensions    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProductParams carries the fields of a new product. Zero timestamps default
// to the time NewProduct is called.
type ProductParams struct {
	ID            int64
	Name          string
	Description   string
	Price         decimal.Decimal
	SKU           string
	CategoryID    int64
	StockQuantity int
	IsActive      bool
	Images        []string
	Tags          []string
	Weight        *float64
	Dimensions    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewProduct(p ProductParams) (Product, error) {
	if p.Price.IsNegative() {
		return Product{}, ErrNegativePrice
	}
	if p.StockQuantity < 0 {
		return Product{}, ErrNegativeStock
	}

	now := time.Now().UTC()
	prod := Product{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		SKU:           p.SKU,
		CategoryID:    p.CategoryID,
		StockQuantity: p.StockQuantity,
		IsActive:      p.IsActive,
		Images:        append([]string{}, p.Images...),
		Tags:          append([]string{}, p.Tags...),
		Weight:        p.Weight,
		Dimensions:    p.Dimensions,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if prod.CreatedAt.IsZero() {
		prod.CreatedAt = now
	}
	if prod.UpdatedAt.IsZero() {
		prod.UpdatedAt = now
	}
	return prod, nil
}

func (p Product) IsInStock() bool { return p.StockQuantity > 0 }

func (p Product) FormattedPrice() string { return money.Format(p.Price) }

type ProductView struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Price          float64   `json:"price"`
	FormattedPrice string    `json:"formatted_price"`
	SKU            string    `json:"sku"`
	CategoryID     int64     `json:"category_id"`
	StockQuantity  int       `json:"stock_quantity"`
	IsActive       bool      `json:"is_active"`
	IsInStock      bool      `json:"is_in_stock"`
	Images         []string  `json:"images"`
	Tags           []string  `json:"tags"`
	Weight         *float64  `json:"weight"`
	Dimensions     *string   `json:"dimensions"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (p Product) View() ProductView {
	v := ProductView{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          money.Float(p.Price),
		FormattedPrice: p.FormattedPrice(),
		SKU:            p.SKU,
		CategoryID:     p.CategoryID,
		StockQuantity:  p.StockQuantity,
		IsActive:       p.IsActive,
		IsInStock:      p.IsInStock(),
		Images:         p.Images,
		Tags:           p.Tags,
		Weight:         p.Weight,
		Dimensions:     nullable(p.Dimensions),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if v.Images == nil {
		v.Images = []string{}
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}
	return v
}

func (p Product) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.View())
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
