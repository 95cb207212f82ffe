package repo

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/sethvargo/go-retry"
	_ "modernc.org/sqlite" // registers "sqlite" driver for database/sql

	"github.com/pkordes/trip-planner/backend/migrations"
)

// Store is an opened trip cache: the repository plus the *sql.DB handle the
// migration ledger runs on.
type Store struct {
	Trips   TripRepo
	DB      *sql.DB
	Dialect migrations.Dialect

	close func()
}

// Open connects to the cache named by dsn. A postgres:// or postgresql://
// URL selects Postgres; anything else is treated as a SQLite file path
// (file: URIs included). The first ping is retried with exponential backoff
// so the process can start before its database is ready.
//
// Open does not migrate; call Migrate before serving.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	if isPostgres(dsn) {
		return openPostgres(ctx, dsn, logger)
	}

	db, err := OpenSQLite(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("repo.Open: %w", err)
	}
	logger.Info("database connection established", "driver", "sqlite")
	return &Store{
		Trips:   NewSQLiteTripRepo(db),
		DB:      db,
		Dialect: migrations.SQLite,
		close:   func() { db.Close() },
	}, nil
}

func openPostgres(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	// New() does not open connections immediately; the first ping does.
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("repo.Open: create pool: %w", err)
	}

	attempt := 0
	backoff := retry.WithMaxRetries(5, retry.NewExponential(200*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := pool.Ping(ctx); err != nil {
			logger.Warn("database not reachable yet", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("repo.Open: ping: %w", err)
	}
	logger.Info("database connection established", "driver", "postgres")

	// goose needs database/sql; share the pool instead of opening a second one.
	db := stdlib.OpenDBFromPool(pool)
	return &Store{
		Trips:   NewTripRepo(pool),
		DB:      db,
		Dialect: migrations.Postgres,
		close: func() {
			db.Close()
			pool.Close()
		},
	}, nil
}

// Migrate brings the schema to the latest ledger version. A failure here must
// abort startup.
func (s *Store) Migrate(ctx context.Context, logger *slog.Logger) error {
	return migrations.Up(ctx, s.DB, s.Dialect, logger)
}

// Close releases every connection held by the store.
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// sqlitePragmas run on every new connection through the driver's _pragma
// DSN parameter.
var sqlitePragmas = []string{
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"foreign_keys(ON)",
	"busy_timeout(5000)",
}

// OpenSQLite opens the SQLite file at path with the cache's connection pragmas.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

func sqliteDSN(path string) string {
	q := url.Values{}
	for _, p := range sqlitePragmas {
		q.Add("_pragma", p)
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + q.Encode()
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
