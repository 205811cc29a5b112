package catalog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	tests := map[string]struct {
		params  ProductParams
		wantErr error
	}{
		"valid":          {params: ProductParams{Name: "Phone", Price: decimal.RequireFromString("699.99"), StockQuantity: 3}},
		"free and empty": {params: ProductParams{Name: "Sticker", Price: decimal.Zero}},
		"negative price": {params: ProductParams{Price: decimal.RequireFromString("-0.01")}, wantErr: ErrNegativePrice},
		"negative stock": {params: ProductParams{Price: decimal.NewFromInt(1), StockQuantity: -1}, wantErr: ErrNegativeStock},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			p, err := NewProduct(tc.params)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.False(t, p.CreatedAt.IsZero())
			assert.NotNil(t, p.Tags)
		})
	}
}

func TestProduct_DerivedFields(t *testing.T) {
	p, err := NewProduct(ProductParams{Price: decimal.RequireFromString("39.9"), StockQuantity: 0})
	require.NoError(t, err)
	assert.False(t, p.IsInStock())
	assert.Equal(t, "$39.90", p.FormattedPrice())

	p.StockQuantity = 1
	assert.True(t, p.IsInStock())
}

func TestProduct_MarshalJSON(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	p, err := NewProduct(ProductParams{
		ID: 1, Name: "Smartphone", Description: "Latest", Price: decimal.RequireFromString("699.99"),
		SKU: "PHONE-001", CategoryID: 1, StockQuantity: 50, IsActive: true,
		Tags: []string{"electronics"}, CreatedAt: ts, UpdatedAt: ts,
	})
	require.NoError(t, err)

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 1,
		"name": "Smartphone",
		"description": "Latest",
		"price": 699.99,
		"formatted_price": "$699.99",
		"sku": "PHONE-001",
		"category_id": 1,
		"stock_quantity": 50,
		"is_active": true,
		"is_in_stock": true,
		"images": [],
		"tags": ["electronics"],
		"weight": null,
		"dimensions": null,
		"created_at": "2024-01-02T03:04:05Z",
		"updated_at": "2024-01-02T03:04:05Z"
	}`, string(raw))
}

func TestCategory_MarshalJSON(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	parent := int64(1)

	raw, err := json.Marshal(NewCategory(2, "Phones", "", &parent, ts))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 2,
		"name": "Phones",
		"description": null,
		"parent_id": 1,
		"is_active": true,
		"created_at": "2024-01-02T03:04:05Z"
	}`, string(raw))
}
