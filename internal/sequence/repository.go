package sequence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
)

var ErrEmptyPartition = errors.New("partition key is required")

// Repository manages producer-side sequences for events.
type Repository interface {
	NextSequence(ctx context.Context, partitionKey string) (int64, error)
}

type repo struct {
	db *sql.DB
}

// NewRepository creates a sequence repository backed by event_sequences.
func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) NextSequence(ctx context.Context, partitionKey string) (int64, error) {
	if partitionKey == "" {
		return 0, ErrEmptyPartition
	}

	var seq int64
	if err := r.db.QueryRowContext(ctx, `
		INSERT INTO event_sequences (partition_key, last_sequence, updated_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (partition_key)
		DO UPDATE SET last_sequence = event_sequences.last_sequence + 1, updated_at = NOW()
		RETURNING last_sequence
	`, partitionKey).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

type memory struct {
	mu   sync.Mutex
	last map[string]int64
}

// NewMemory keeps sequences in process; they restart at 1 on every boot.
func NewMemory() Repository {
	return &memory{last: make(map[string]int64)}
}

func (m *memory) NextSequence(_ context.Context, partitionKey string) (int64, error) {
	if partitionKey == "" {
		return 0, ErrEmptyPartition
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last[partitionKey]++
	return m.last[partitionKey], nil
}
