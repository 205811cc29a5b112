package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/db"
)

const productColumns = `id, name, description, price::text, sku, category_id, stock_quantity,
	is_active, images, tags, weight, dimensions, created_at, updated_at`

type PostgresRepository struct {
	pool db.Pool
}

func NewPostgresRepository(pool db.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) CreateCategory(ctx context.Context, c Category) (Category, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO categories (name, description, parent_id, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		c.Name, nullable(c.Description), c.ParentID, c.IsActive, c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		return Category{}, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, parent_id, is_active, created_at
		FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	out := []Category{}
	for rows.Next() {
		var (
			c    Category
			desc *string
		)
		if err := rows.Scan(&c.ID, &c.Name, &desc, &c.ParentID, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if desc != nil {
			c.Description = *desc
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) CreateProduct(ctx context.Context, p Product) (Product, error) {
	images, tags := p.Images, p.Tags
	if images == nil {
		images = []string{}
	}
	if tags == nil {
		tags = []string{}
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO products (name, description, price, sku, category_id, stock_quantity,
			is_active, images, tags, weight, dimensions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`,
		p.Name, p.Description, p.Price.String(), p.SKU, p.CategoryID, p.StockQuantity,
		p.IsActive, images, tags, p.Weight, nullable(p.Dimensions), p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Product{}, ErrConflict
		}
		return Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) GetProduct(ctx context.Context, id int64) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("select product: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p          Product
		price      string
		dimensions *string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &p.SKU, &p.CategoryID, &p.StockQuantity,
		&p.IsActive, &p.Images, &p.Tags, &p.Weight, &dimensions, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return Product{}, fmt.Errorf("parse price %q: %w", price, err)
	}
	if dimensions != nil {
		p.Dimensions = *dimensions
	}
	return p, nil
}
