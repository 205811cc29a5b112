package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/user"
)

var fixedNow = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

func TestRun_UsersSkipsRowMissingField(t *testing.T) {
	rows := []Row{
		{"username": "JohnD", "email": "John.Doe@Example.com", "first_name": "john", "last_name": "doe"},
		{"username": "jane", "email": "", "first_name": "jane", "last_name": "smith"},
		{"username": "bob", "email": "bob@example.com", "first_name": "bob", "last_name": "wilson", "is_active": "False"},
	}

	res := Run(rows, Users(), fixedNow)

	assert.Equal(t, 2, res.TotalProcessed())
	assert.Equal(t, 1, res.TotalErrors())
	assert.Equal(t, []string{"Row 2: Field 'email' is required"}, res.Errors)

	first := res.Records[0]
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "johnd", first.Username)
	assert.Equal(t, "john.doe@example.com", first.Email)
	assert.Equal(t, "John Doe", first.FullName())
	assert.True(t, first.IsActive)
	assert.Equal(t, fixedNow, first.CreatedAt)

	assert.Equal(t, int64(3), res.Records[1].ID, "ids follow the row ordinal")
	assert.False(t, res.Records[1].IsActive)
}

func TestRun_UserErrors(t *testing.T) {
	rows := []Row{
		{"username": "x"},
		{"username": "u", "email": "invalid-email", "first_name": "t", "last_name": "u"},
		{"username": "u", "email": "a@b.co", "first_name": "t", "last_name": "u", "is_active": "maybe"},
	}

	res := Run(rows, Users(), fixedNow)

	assert.Equal(t, 0, res.TotalProcessed())
	assert.Equal(t, []string{
		"Row 1: Field 'email' is required, Field 'first_name' is required, Field 'last_name' is required",
		"Row 2: Invalid email address 'invalid-email'",
		"Row 3: Invalid is_active 'maybe'",
	}, res.Errors)
}

func TestRun_Products(t *testing.T) {
	rows := []Row{
		{
			"name": "smartphone pro", "description": strings.Repeat("x", 250), "price": "699.99",
			"sku": "phone-001", "category_id": "1", "stock_quantity": "50", "tags": "electronics, mobile,,",
		},
		{"name": "book", "description": "d", "price": "abc", "sku": "b", "category_id": "2"},
		{"name": "book", "description": "d", "price": "-1", "sku": "b", "category_id": "2"},
		{"name": "book", "description": "d", "price": "5", "sku": "b", "category_id": "2.5"},
		{"name": "book", "description": "d", "price": "5", "sku": "b", "category_id": "18446744073709551617"},
		{"name": "pen", "description": "d", "price": json.Number("1.5"), "sku": "p", "category_id": json.Number("3")},
	}

	res := Run(rows, Products(), fixedNow)

	require.Equal(t, 2, res.TotalProcessed())
	assert.Equal(t, []string{
		"Row 2: Invalid price 'abc'",
		"Row 3: " + catalog.ErrNegativePrice.Error(),
		"Row 4: Invalid category_id '2.5'",
		"Row 5: Invalid category_id '18446744073709551617'",
	}, res.Errors)

	p := res.Records[0]
	assert.Equal(t, "Smartphone Pro", p.Name)
	assert.Equal(t, "PHONE-001", p.SKU)
	assert.Len(t, []rune(p.Description), 200)
	assert.True(t, strings.HasSuffix(p.Description, "..."))
	assert.True(t, p.Price.Equal(decimal.RequireFromString("699.99")))
	assert.Equal(t, 50, p.StockQuantity)
	assert.Equal(t, []string{"electronics", "mobile"}, p.Tags)

	pen := res.Records[1]
	assert.Equal(t, int64(6), pen.ID)
	assert.Equal(t, 0, pen.StockQuantity)
	assert.Equal(t, int64(3), pen.CategoryID)
	assert.Equal(t, []string{}, pen.Tags)
}

func TestResult_MarshalJSON(t *testing.T) {
	res := Run([]Row{{"username": "a", "email": "a@b.co", "first_name": "a", "last_name": "b"}}, Users(), fixedNow)

	raw, err := json.Marshal(res)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "2024-06-01T09:30:00Z", got["processed_at"])
	assert.EqualValues(t, 1, got["total_processed"])
	assert.EqualValues(t, 0, got["total_errors"])
	assert.Equal(t, []any{}, got["errors"])
	users, ok := got["users"].([]any)
	require.True(t, ok)
	require.Len(t, users, 1)
	assert.Equal(t, "A B", users[0].(map[string]any)["full_name"])

	empty, err := json.Marshal(Run(nil, Products(), fixedNow))
	require.NoError(t, err)
	assert.Contains(t, string(empty), `"products":[]`)
}

func TestResult_Store(t *testing.T) {
	rows := []Row{
		{"username": "a", "email": "a@b.co", "first_name": "a", "last_name": "a"},
		{"username": "dup", "email": "d@b.co", "first_name": "d", "last_name": "d"},
		{"username": "c", "email": "c@b.co", "first_name": "c", "last_name": "c"},
	}
	res := Run(rows, Users(), fixedNow)

	repo := user.NewMemoryRepository()
	_, err := repo.Create(context.Background(), user.New(user.Params{Username: "dup"}))
	require.NoError(t, err)

	err = res.Store(context.Background(), func(ctx context.Context, u user.User) (user.User, error) {
		u.ID = 0
		return repo.Create(ctx, u)
	})
	require.NoError(t, err)

	require.Equal(t, 2, res.TotalProcessed())
	assert.Equal(t, int64(2), res.Records[0].ID)
	assert.Equal(t, int64(3), res.Records[1].ID)
	assert.Equal(t, []string{"Row 2: " + user.ErrConflict.Error()}, res.Errors)
}

func TestResult_StoreStopsOnCancel(t *testing.T) {
	res := Run([]Row{{"username": "a", "email": "a@b.co", "first_name": "a", "last_name": "a"}}, Users(), fixedNow)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := res.Store(ctx, func(ctx context.Context, u user.User) (user.User, error) {
		return u, errors.New("unreachable")
	})
	assert.ErrorIs(t, err, context.Canceled)
}
