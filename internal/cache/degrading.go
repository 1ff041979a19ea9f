package cache

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// Degrading wraps a Cache so backend failures never reach the caller: a
// failed Get is a miss and failed writes are dropped. Failures are logged.
type Degrading struct {
	inner    Cache
	failures atomic.Int64
}

func NewDegrading(inner Cache) *Degrading {
	return &Degrading{inner: inner}
}

// Failures counts backend errors swallowed so far.
func (d *Degrading) Failures() int64 {
	return d.failures.Load()
}

func (d *Degrading) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok, err := d.inner.Get(ctx, key)
	if err != nil {
		d.fail(err, "get", key)
		return nil, false, nil
	}
	return v, ok, nil
}

func (d *Degrading) Set(ctx context.Context, key string, value []byte) error {
	if err := d.inner.Set(ctx, key, value); err != nil {
		d.fail(err, "set", key)
	}
	return nil
}

func (d *Degrading) Delete(ctx context.Context, key string) error {
	if err := d.inner.Delete(ctx, key); err != nil {
		d.fail(err, "delete", key)
	}
	return nil
}

func (d *Degrading) DeletePrefix(ctx context.Context, prefix string) error {
	if err := d.inner.DeletePrefix(ctx, prefix); err != nil {
		d.fail(err, "delete_prefix", prefix)
	}
	return nil
}

func (d *Degrading) fail(err error, op, key string) {
	d.failures.Add(1)
	log.Warn().Err(err).Str("op", op).Str("key", key).Msg("result cache unavailable")
}
