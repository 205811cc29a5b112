package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/db"
)

const (
	orderColumns = `id, user_id, status, shipping_address, billing_address, notes,
	created_at, shipped_at, delivered_at`
	itemColumns = `order_id, id, product_id, product_name, product_sku, quantity, unit_price::text`
)

type PostgresRepository struct {
	pool db.Pool
}

func NewPostgresRepository(pool db.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, o *Order) error {
	s := o.Snapshot()

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (user_id, status, shipping_address, billing_address, notes,
			created_at, shipped_at, delivered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		s.UserID, string(s.Status), nullable(s.ShippingAddress), nullable(s.BillingAddress),
		nullable(s.Notes), s.CreatedAt, s.ShippedAt, s.DeliveredAt,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if err := insertItems(ctx, tx, id, s.Items); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	o.setID(id)
	return nil
}

func (r *PostgresRepository) Save(ctx context.Context, o *Order) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := saveTx(ctx, tx, o.Snapshot()); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Update holds the order row lock from the read until commit, so concurrent
// updates of one order apply one after the other.
func (r *PostgresRepository) Update(ctx context.Context, id int64, fn func(*Order) error) (*Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	s, err := scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}
	items, err := loadItems(ctx, tx, []int64{id})
	if err != nil {
		return nil, err
	}
	s.Items = items[id]

	o, err := FromSnapshot(s)
	if err != nil {
		return nil, err
	}
	if err := fn(o); err != nil {
		return nil, err
	}
	if err := saveTx(ctx, tx, o.Snapshot()); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return o, nil
}

func saveTx(ctx context.Context, tx pgx.Tx, s Snapshot) error {
	tag, err := tx.Exec(ctx, `
		UPDATE orders
		SET status = $2, shipping_address = $3, billing_address = $4, notes = $5,
			shipped_at = $6, delivered_at = $7
		WHERE id = $1`,
		s.ID, string(s.Status), nullable(s.ShippingAddress), nullable(s.BillingAddress),
		nullable(s.Notes), s.ShippedAt, s.DeliveredAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, s.ID); err != nil {
		return fmt.Errorf("delete order_items: %w", err)
	}
	return insertItems(ctx, tx, s.ID, s.Items)
}

func insertItems(ctx context.Context, tx pgx.Tx, orderID int64, items []Item) error {
	for pos, it := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, id, position, product_id, product_name, product_sku, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			orderID, it.ID, pos, it.ProductID, it.ProductName, it.ProductSKU, it.Quantity, it.UnitPrice.String(),
		)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Order, error) {
	s, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	items, err := loadItems(ctx, r.pool, []int64{id})
	if err != nil {
		return nil, err
	}
	s.Items = items[id]
	return FromSnapshot(s)
}

func (r *PostgresRepository) List(ctx context.Context) ([]*Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		s, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		snaps = append(snaps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	rows.Close()

	out := make([]*Order, 0, len(snaps))
	if len(snaps) == 0 {
		return out, nil
	}

	ids := make([]int64, 0, len(snaps))
	for _, s := range snaps {
		ids = append(ids, s.ID)
	}
	items, err := loadItems(ctx, r.pool, ids)
	if err != nil {
		return nil, err
	}

	for _, s := range snaps {
		s.Items = items[s.ID]
		o, err := FromSnapshot(s)
		if err != nil {
			return nil, fmt.Errorf("order %d: %w", s.ID, err)
		}
		out = append(out, o)
	}
	return out, nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func loadItems(ctx context.Context, q querier, orderIDs []int64) (map[int64][]Item, error) {
	rows, err := q.Query(ctx,
		`SELECT `+itemColumns+` FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, position`,
		orderIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("select order_items: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]Item, len(orderIDs))
	for rows.Next() {
		var (
			orderID int64
			it      Item
			price   string
		)
		if err := rows.Scan(&orderID, &it.ID, &it.ProductID, &it.ProductName, &it.ProductSKU, &it.Quantity, &price); err != nil {
			return nil, fmt.Errorf("scan order_item: %w", err)
		}
		if it.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parse unit price %q: %w", price, err)
		}
		out[orderID] = append(out[orderID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func scanOrder(row pgx.Row) (Snapshot, error) {
	var (
		s                        Snapshot
		status                   string
		shipping, billing, notes *string
		shippedAt, deliveredAt   *time.Time
	)
	err := row.Scan(&s.ID, &s.UserID, &status, &shipping, &billing, &notes,
		&s.CreatedAt, &shippedAt, &deliveredAt)
	if err != nil {
		return Snapshot{}, err
	}
	if s.Status, err = ParseStatus(status); err != nil {
		return Snapshot{}, err
	}
	s.ShippingAddress = deref(shipping)
	s.BillingAddress = deref(billing)
	s.Notes = deref(notes)
	s.ShippedAt = shippedAt
	s.DeliveredAt = deliveredAt
	return s, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
