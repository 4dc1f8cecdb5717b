package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domaincache "domain_expiry_notifier/internal/domain/cache"
)

// envelope is the stored shape: the raw value plus the absolute expiry
// the Store contract exposes. The Redis key TTL tracks the same
// deadline so dead entries disappear on their own.
type envelope struct {
	Value     []byte    `json:"value"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr, password string, db int) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{client: rdb}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Get(ctx context.Context, key string) (*domaincache.Entry, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting cache entry %q: %w", key, err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("error decoding cache entry %q: %w", key, err)
	}
	return &domaincache.Entry{Value: env.Value, ExpiresAt: env.ExpiresAt}, nil
}

func (s *RedisStore) Upsert(ctx context.Context, key string, value []byte, expiresAt time.Time) error {
	raw, err := json.Marshal(envelope{Value: value, ExpiresAt: expiresAt})
	if err != nil {
		return fmt.Errorf("error encoding cache entry %q: %w", key, err)
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	if err := s.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("error upserting cache entry %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) KeysByPrefix(ctx context.Context, prefix string, notExpiredBefore time.Time) ([]string, error) {
	keys := make([]string, 0)
	iter := s.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		entry, err := s.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if entry != nil && entry.ExpiresAt.After(notExpiredBefore) {
			keys = append(keys, key)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("error scanning cache keys by prefix %q: %w", prefix, err)
	}
	return keys, nil
}
