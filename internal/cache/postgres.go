package cache

import (
	"context"
	"errors"

	"poker-replay/internal/store"
)

// Postgres keeps entries in the stats_cache table.
type Postgres struct {
	st *store.Store
}

func NewPostgres(st *store.Store) *Postgres {
	return &Postgres{st: st}
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, bool, error) {
	e, err := p.st.GetCacheEntry(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return e.Value, true, nil
}

func (p *Postgres) Set(ctx context.Context, key string, value []byte) error {
	return p.st.PutCacheEntry(ctx, key, value)
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	return p.st.DeleteCacheEntry(ctx, key)
}

func (p *Postgres) DeletePrefix(ctx context.Context, prefix string) error {
	_, err := p.st.DeleteCacheEntriesByPrefix(ctx, prefix)
	return err
}
