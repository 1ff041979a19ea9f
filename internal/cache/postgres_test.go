package cache_test

import (
	"context"
	"testing"

	"poker-replay/internal/cache"
	"poker-replay/internal/testutil"
)

func TestPostgresCache(t *testing.T) {
	st := testutil.OpenTestStore(t)
	ctx := context.Background()
	c := cache.NewPostgres(st)

	if _, ok, err := c.Get(ctx, cache.OverallKey); ok || err != nil {
		t.Fatalf("miss = %v, %v", ok, err)
	}
	if err := c.Set(ctx, cache.TournamentKey("t1"), []byte(`{"total_hands":3}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Set(ctx, cache.OverallKey, []byte(`{"tournaments_loaded":1}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, err := c.Get(ctx, cache.TournamentKey("t1")); !ok || err != nil {
		t.Fatalf("hit = %v, %v", ok, err)
	}
	if err := c.DeletePrefix(ctx, cache.TournamentPrefix); err != nil {
		t.Fatalf("DeletePrefix: %v", err)
	}
	if _, ok, _ := c.Get(ctx, cache.TournamentKey("t1")); ok {
		t.Fatal("tournament entry survived prefix delete")
	}
	if _, ok, _ := c.Get(ctx, cache.OverallKey); !ok {
		t.Fatal("overall entry removed by tournament prefix")
	}
}
