package catalog

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a product SKU is already taken.
	ErrConflict = errors.New("sku already exists")
)

type Repository interface {
	CreateCategory(ctx context.Context, c Category) (Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
	CreateProduct(ctx context.Context, p Product) (Product, error)
	GetProduct(ctx context.Context, id int64) (Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
}

type MemoryRepository struct {
	mu             sync.RWMutex
	categories     map[int64]Category
	products       map[int64]Product
	nextCategoryID int64
	nextProductID  int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		categories:     make(map[int64]Category),
		products:       make(map[int64]Product),
		nextCategoryID: 1,
		nextProductID:  1,
	}
}

func (r *MemoryRepository) CreateCategory(_ context.Context, c Category) (Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == 0 {
		c.ID = r.nextCategoryID
	}
	if c.ID >= r.nextCategoryID {
		r.nextCategoryID = c.ID + 1
	}
	r.categories[c.ID] = c
	return c, nil
}

func (r *MemoryRepository) ListCategories(_ context.Context) ([]Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// CreateProduct keeps a non-zero p.ID as given, otherwise assigns the next id.
func (r *MemoryRepository) CreateProduct(_ context.Context, p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.products {
		if existing.SKU == p.SKU {
			return Product{}, ErrConflict
		}
	}
	if p.ID == 0 {
		p.ID = r.nextProductID
	}
	if _, taken := r.products[p.ID]; taken {
		return Product{}, ErrConflict
	}
	if p.ID >= r.nextProductID {
		r.nextProductID = p.ID + 1
	}
	r.products[p.ID] = p
	return p, nil
}

func (r *MemoryRepository) GetProduct(_ context.Context, id int64) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepository) ListProducts(_ context.Context) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
