package catalog

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productCols = []string{"id", "name", "description", "price", "sku", "category_id", "stock_quantity",
	"is_active", "images", "tags", "weight", "dimensions", "created_at", "updated_at"}

func TestPostgresRepository_GetProduct(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ts := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	weight := 0.2
	mock.ExpectQuery(regexp.QuoteMeta("FROM products WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(productCols).AddRow(
			int64(1), "Smartphone", "Latest", "699.99", "PHONE-001", int64(1), 50,
			true, []string{}, []string{"mobile"}, &weight, (*string)(nil), ts, ts))
	mock.ExpectQuery(regexp.QuoteMeta("FROM products WHERE id = $1")).
		WithArgs(int64(2)).
		WillReturnError(pgx.ErrNoRows)

	repo := NewPostgresRepository(mock)

	p, err := repo.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("699.99")))
	assert.Equal(t, "$699.99", p.FormattedPrice())
	assert.Equal(t, []string{"mobile"}, p.Tags)
	require.NotNil(t, p.Weight)
	assert.InDelta(t, 0.2, *p.Weight, 1e-9)
	assert.Empty(t, p.Dimensions)

	_, err = repo.GetProduct(context.Background(), 2)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_CreateProduct(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	p, err := NewProduct(ProductParams{
		Name: "Book", Description: "Guide", Price: decimal.RequireFromString("39.99"),
		SKU: "BOOK-001", CategoryID: 2, StockQuantity: 100, IsActive: true,
	})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO products")).
		WithArgs("Book", "Guide", "39.99", "BOOK-001", int64(2), 100, true,
			[]string{}, []string{}, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO products")).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	repo := NewPostgresRepository(mock)

	created, err := repo.CreateProduct(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)

	_, err = repo.CreateProduct(context.Background(), p)
	assert.ErrorIs(t, err, ErrConflict)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Categories(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ts := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	desc := "Books and educational materials"
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO categories")).
		WithArgs("Books", &desc, (*int64)(nil), true, ts).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(2)))
	mock.ExpectQuery(regexp.QuoteMeta("FROM categories ORDER BY id")).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "parent_id", "is_active", "created_at"}).
			AddRow(int64(2), "Books", &desc, (*int64)(nil), true, ts))

	repo := NewPostgresRepository(mock)

	c, err := repo.CreateCategory(context.Background(), NewCategory(0, "Books", desc, nil, ts))
	require.NoError(t, err)
	assert.Equal(t, int64(2), c.ID)

	all, err := repo.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, desc, all[0].Description)
	assert.Nil(t, all[0].ParentID)

	require.NoError(t, mock.ExpectationsWereMet())
}
