package store

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgtype"
)

func (s *Store) GetCacheEntry(ctx context.Context, key string) (*CacheEntry, error) {
	var (
		e                    CacheEntry
		createdAt, updatedAt pgtype.Timestamptz
	)
	err := s.Pool.QueryRow(ctx,
		`SELECT id, cache_key, value, created_at, updated_at FROM stats_cache WHERE cache_key = $1`,
		key,
	).Scan(&e.ID, &e.Key, &e.Value, &createdAt, &updatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	e.CreatedAt = timeVal(createdAt)
	e.UpdatedAt = timeVal(updatedAt)
	return &e, nil
}

// PutCacheEntry inserts or replaces the value stored under key.
func (s *Store) PutCacheEntry(ctx context.Context, key string, value json.RawMessage) error {
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO stats_cache (id, cache_key, value)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (cache_key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		NewID(), key, value,
	)
	return err
}

func (s *Store) DeleteCacheEntry(ctx context.Context, key string) error {
	_, err := s.Pool.Exec(ctx, `DELETE FROM stats_cache WHERE cache_key = $1`, key)
	return err
}

// DeleteCacheEntriesByPrefix removes every entry whose key starts with
// prefix and reports how many went.
func (s *Store) DeleteCacheEntriesByPrefix(ctx context.Context, prefix string) (int64, error) {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM stats_cache WHERE cache_key LIKE $1`, likePrefix(prefix))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) CountCacheEntries(ctx context.Context) (int64, error) {
	var n int64
	err := s.Pool.QueryRow(ctx, `SELECT count(*) FROM stats_cache`).Scan(&n)
	return n, err
}
