package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) TryLock(ctx context.Context, scope, key string) (bool, error) {
	return s.rdb.SetNX(ctx, "idemp:"+scope+":"+key, "1", s.ttl).Result()
}

func (s *RedisStore) Release(ctx context.Context, scope, key string) error {
	return s.rdb.Del(ctx, "idemp:"+scope+":"+key).Err()
}

func (s *RedisStore) Remember(ctx context.Context, scope, key, value string) error {
	return s.rdb.Set(ctx, "idemp:map:"+scope+":"+key, value, s.ttl).Err()
}

func (s *RedisStore) Recall(ctx context.Context, scope, key string) (string, bool, error) {
	val, err := s.rdb.Get(ctx, "idemp:map:"+scope+":"+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

var (
	_ Store = (*RedisStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
