// Package idempotency remembers which request keys have already produced a
// result, so retried POSTs return the original resource.
package idempotency

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrInFlight means another request holds the key and has not finished.
var ErrInFlight = errors.New("request with this idempotency key is in progress")

type Store interface {
	// TryLock claims key within scope; false when it is already claimed.
	TryLock(ctx context.Context, scope, key string) (bool, error)
	// Release drops a claim whose request failed so it can be retried.
	Release(ctx context.Context, scope, key string) error
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}

type entry struct {
	value   string
	expires time.Time
}

// MemoryStore is a single-process Store with the same TTL semantics as the
// Redis one. Expired keys are swept at most once per ttl.
type MemoryStore struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	locks     map[string]time.Time
	vals      map[string]entry
	nextSweep time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:   ttl,
		now:   time.Now,
		locks: make(map[string]time.Time),
		vals:  make(map[string]entry),
	}
}

func (s *MemoryStore) TryLock(_ context.Context, scope, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweepLocked(now)
	k := scope + ":" + key
	if exp, ok := s.locks[k]; ok && now.Before(exp) {
		return false, nil
	}
	s.locks[k] = now.Add(s.ttl)
	return true, nil
}

func (s *MemoryStore) Release(_ context.Context, scope, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, scope+":"+key)
	return nil
}

func (s *MemoryStore) Remember(_ context.Context, scope, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vals[scope+":"+key] = entry{value: value, expires: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Recall(_ context.Context, scope, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweepLocked(now)
	e, ok := s.vals[scope+":"+key]
	if !ok || !now.Before(e.expires) {
		return "", false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore) sweepLocked(now time.Time) {
	if now.Before(s.nextSweep) {
		return
	}
	for k, exp := range s.locks {
		if !now.Before(exp) {
			delete(s.locks, k)
		}
	}
	for k, e := range s.vals {
		if !now.Before(e.expires) {
			delete(s.vals, k)
		}
	}
	s.nextSweep = now.Add(s.ttl)
}
