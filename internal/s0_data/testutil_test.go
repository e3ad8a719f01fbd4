package s0_data

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB starts a PostgreSQL container and applies sql/postgres migrations.
// Skipped under -short.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test (needs docker)")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	runMigrations(t, ctx, pool)
	return pool
}

func runMigrations(t *testing.T, ctx context.Context, pool *pgxpool.Pool) {
	t.Helper()

	dir := filepath.Join(findProjectRoot(t), "sql", "postgres")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, f := range files {
		sql, err := os.ReadFile(filepath.Join(dir, f))
		require.NoError(t, err)
		_, err = pool.Exec(ctx, string(sql))
		require.NoError(t, err, "migration %s", f)
	}
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

func insertPrice(t *testing.T, pool *pgxpool.Pool, ticker, date string, closeAdj, closePrice, volume any) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO prices (ticker, date, closeadj, close, volume) VALUES ($1, $2::date, $3, $4, $5)`,
		ticker, date, closeAdj, closePrice, volume)
	require.NoError(t, err)
}

func insertFiling(t *testing.T, pool *pgxpool.Pool, ticker, dimension, datekey string, shares float64) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO fundamentals (ticker, dimension, datekey, sharesbas, sharefactor, pb, assetsc, cashneq,
		                          liabilitiesc, depamor, roa, assets, divyield, debt, revenue)
		VALUES ($1, $2, $3::date, $4, 1, 1.5, 500, 100, 200, 10, 0.05, 1000, NULL, 300, 900)`,
		ticker, dimension, datekey, shares)
	require.NoError(t, err)
}
