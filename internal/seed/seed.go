// Package seed provides the demo data served by a fresh API and the sample
// CSV files generated by the CLI.
package seed

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/user"
)

const (
	UsersFile    = "sample_users.csv"
	ProductsFile = "sample_products.csv"
)

// Load stores two categories, two products and one user.
func Load(ctx context.Context, users user.Repository, products catalog.Repository) error {
	for _, c := range []catalog.Category{
		catalog.NewCategory(1, "Electronics", "Electronic devices and accessories", nil, time.Time{}),
		catalog.NewCategory(2, "Books", "Books and educational materials", nil, time.Time{}),
	} {
		if _, err := products.CreateCategory(ctx, c); err != nil {
			return fmt.Errorf("seed category %s: %w", c.Name, err)
		}
	}

	for _, p := range []catalog.ProductParams{
		{
			ID: 1, Name: "Smartphone", Description: "Latest smartphone with advanced features",
			Price: decimal.RequireFromString("699.99"), SKU: "PHONE-001", CategoryID: 1,
			StockQuantity: 50, IsActive: true, Tags: []string{"electronics", "mobile", "smartphone"},
		},
		{
			ID: 2, Name: "Python Programming Book", Description: "Comprehensive guide to Python programming",
			Price: decimal.RequireFromString("39.99"), SKU: "BOOK-001", CategoryID: 2,
			StockQuantity: 100, IsActive: true, Tags: []string{"books", "programming", "python"},
		},
	} {
		prod, err := catalog.NewProduct(p)
		if err != nil {
			return fmt.Errorf("seed product %s: %w", p.SKU, err)
		}
		if _, err := products.CreateProduct(ctx, prod); err != nil {
			return fmt.Errorf("seed product %s: %w", p.SKU, err)
		}
	}

	_, err := users.Create(ctx, user.New(user.Params{
		ID:        1,
		Username:  "johndoe",
		Email:     "john.doe@example.com",
		FirstName: "John",
		LastName:  "Doe",
		IsActive:  true,
	}))
	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}
	return nil
}

var (
	userHeader = []string{"username", "email", "first_name", "last_name", "is_active"}
	userRows   = [][]string{
		{"john_doe", "john.doe@example.com", "john", "doe", "True"},
		{"jane_smith", "jane.smith@example.com", "jane", "smith", "True"},
		{"bob_wilson", "bob.wilson@example.com", "bob", "wilson", "False"},
		{"invalid_user", "invalid-email", "test", "user", "True"},
	}

	productHeader = []string{"name", "description", "price", "sku", "category_id", "stock_quantity", "tags"}
	productRows   = [][]string{
		{"smartphone pro", "Latest smartphone with advanced features and great camera", "699.99", "PHONE-001", "1", "50", "electronics,mobile,smartphone"},
		{"laptop ultrabook", "Lightweight laptop perfect for professionals", "1299.99", "LAPTOP-001", "1", "25", "electronics,computer,laptop"},
		{"python cookbook", "Comprehensive guide to Python programming with practical examples", "39.99", "BOOK-001", "2", "100", "books,programming,python"},
		{"wireless headphones", "High-quality wireless headphones with noise cancellation", "199.99", "AUDIO-001", "1", "75", "electronics,audio,headphones"},
	}
)

// WriteSampleCSV writes sample_users.csv and sample_products.csv into dir
// and returns their paths. The last user row has an invalid email on purpose.
func WriteSampleCSV(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	files := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{UsersFile, userHeader, userRows},
		{ProductsFile, productHeader, productRows},
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := writeCSV(path, f.header, f.rows); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
