// Package testutil provides shared helpers for integration tests.
// Postgres helpers skip automatically when TEST_DATABASE_URL is not set, so
// unit tests can run without a running database. SQLite helpers always run
// against a file in the test's temp dir.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql

	"github.com/pkordes/trip-planner/backend/internal/repo"
	"github.com/pkordes/trip-planner/backend/migrations"
)

// NewPool connects a pgx pool to TEST_DATABASE_URL for the repo tests. It
// skips the test when the variable is unset and closes the pool on cleanup.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, requireDSN(t))
	if err == nil {
		err = pool.Ping(ctx)
		if err != nil {
			pool.Close()
		}
	}
	if err != nil {
		t.Fatalf("testutil.NewPool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// NewSQLDB is NewPool for code that needs *sql.DB, such as the migration
// ledger.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := openPostgres(requireDSN(t))
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// MustOpenSQLDB opens dsn for TestMain, where there is no *testing.T.
// It panics on failure; the caller closes the handle.
func MustOpenSQLDB(dsn string) *sql.DB {
	db, err := openPostgres(dsn)
	if err != nil {
		panic("testutil.MustOpenSQLDB: " + err.Error())
	}
	return db
}

func openPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}

// OpenSQLite opens an empty SQLite database in a temp dir. No migrations are
// applied, so tests can drive the ledger step by step.
func OpenSQLite(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "trips.db")
	db, err := repo.OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("testutil.OpenSQLite: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// NewSQLiteDB opens a SQLite database in a temp dir with the full migration
// ledger applied.
func NewSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()

	db := OpenSQLite(t)
	if err := migrations.Up(context.Background(), db, migrations.SQLite, DiscardLogger()); err != nil {
		t.Fatalf("testutil.NewSQLiteDB: migrate: %v", err)
	}
	return db
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// requireDSN returns TEST_DATABASE_URL or skips the test.
func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}
	return dsn
}
