// Package cache provides the key-value store backends: PostgreSQL (the
// default, sharing the main database) and Redis.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domaincache "domain_expiry_notifier/internal/domain/cache"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (*domaincache.Entry, error) {
	query := `SELECT value, expires_at FROM kv_cache WHERE key = $1`
	entry := domaincache.Entry{}
	err := s.db.QueryRowContext(ctx, query, key).Scan(&entry.Value, &entry.ExpiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting cache entry %q: %w", key, err)
	}
	return &entry, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, key string, value []byte, expiresAt time.Time) error {
	query := `INSERT INTO kv_cache (key, value, expires_at)
               VALUES ($1, $2, $3)
               ON CONFLICT (key)
               DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at, updated_at = NOW()`
	if _, err := s.db.ExecContext(ctx, query, key, value, expiresAt); err != nil {
		return fmt.Errorf("error upserting cache entry %q: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) KeysByPrefix(ctx context.Context, prefix string, notExpiredBefore time.Time) ([]string, error) {
	query := `SELECT key FROM kv_cache WHERE key LIKE $1 || '%' AND expires_at > $2 ORDER BY key`
	rows, err := s.db.QueryContext(ctx, query, prefix, notExpiredBefore)
	if err != nil {
		return nil, fmt.Errorf("error listing cache keys by prefix %q: %w", prefix, err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("error scanning cache key: %w", err)
		}
		keys = append(keys, k)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cache keys: %w", err)
	}
	return keys, nil
}
