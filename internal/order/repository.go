package order

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var ErrNotFound = errors.New("order not found")

type Repository interface {
	// Create stores a new order and assigns its id.
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context) ([]*Order, error)
	// Save persists status, timestamps and items of an existing order.
	Save(ctx context.Context, o *Order) error
	// Update loads the order, applies fn and persists the result while no
	// other Update of the same order can run. Nothing is stored when fn fails.
	Update(ctx context.Context, id int64, fn func(*Order) error) (*Order, error)
}

// MemoryRepository hands out the stored *Order itself, so callers share the
// order's lock. Update works on a copy and swaps it in on success.
type MemoryRepository struct {
	mu     sync.RWMutex
	orders map[int64]*Order
	nextID int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{orders: make(map[int64]*Order), nextID: 1}
}

func (r *MemoryRepository) Create(_ context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := o.ID()
	if id == 0 {
		id = r.nextID
		o.setID(id)
	}
	if id >= r.nextID {
		r.nextID = id + 1
	}
	r.orders[id] = o
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return o, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (r *MemoryRepository) Save(_ context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := o.ID()
	if _, ok := r.orders[id]; !ok {
		return ErrNotFound
	}
	r.orders[id] = o
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, id int64, fn func(*Order) error) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	next, err := FromSnapshot(cur.Snapshot())
	if err != nil {
		return nil, err
	}
	if err := fn(next); err != nil {
		return nil, err
	}
	r.orders[id] = next
	return next, nil
}
