package testutil

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"poker-replay/internal/config"
	"poker-replay/internal/store"
)

const migrationsDir = "migrations"

// OpenTestStore returns a store confined to a fresh schema with every up
// migration applied. The schema is dropped when the test ends. The test is
// skipped when TEST_POSTGRES_DSN is unset.
func OpenTestStore(t *testing.T) *store.Store {
	t.Helper()
	cfg, err := config.LoadTest()
	if err != nil {
		t.Skipf("skip test db: %v", err)
	}
	ctx := context.Background()
	schema := "test_" + strings.ToLower(store.NewID())

	if err := execAdmin(ctx, cfg.TestPostgresDSN, "CREATE SCHEMA "+pgx.Identifier{schema}.Sanitize()); err != nil {
		t.Fatalf("create schema %s: %v", schema, err)
	}
	t.Cleanup(func() {
		if err := execAdmin(context.Background(), cfg.TestPostgresDSN, "DROP SCHEMA "+pgx.Identifier{schema}.Sanitize()+" CASCADE"); err != nil {
			t.Logf("drop schema %s: %v", schema, err)
		}
	})

	st, err := store.New(ctx, withSearchPath(cfg.TestPostgresDSN, schema))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(st.Close)

	files, err := upMigrations()
	if err != nil {
		t.Fatalf("find migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := st.Pool.Exec(ctx, string(b)); err != nil {
			t.Fatalf("apply %s: %v", filepath.Base(f), err)
		}
	}
	return st
}

func execAdmin(ctx context.Context, dsn, sql string) error {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()
	_, err = pool.Exec(ctx, sql)
	return err
}

// upMigrations walks up from the working directory to the module's
// migrations folder and returns its *.up.sql files in order.
func upMigrations() ([]string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	for {
		files, err := filepath.Glob(filepath.Join(dir, migrationsDir, "*.up.sql"))
		if err != nil {
			return nil, err
		}
		if len(files) > 0 {
			sort.Strings(files)
			return files, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("no %s/*.up.sql above working directory", migrationsDir)
		}
		dir = parent
	}
}

func withSearchPath(dsn, schema string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		return dsn + " search_path=" + schema
	}
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()
	return u.String()
}
