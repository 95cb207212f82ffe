// Package migrations is the ordered, forward-only ledger of schema changes
// for the trip cache. Steps are goose Go migrations so that the same ledger
// drives both the Postgres and the SQLite store.
//
// Every step is written to be re-runnable: tables and indexes are created
// with IF NOT EXISTS and columns are only added when missing. Every column
// added after version 1 carries a default so rows written by older versions
// still load.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

// Dialect names the SQL flavour a step is rendered for.
type Dialect = goose.Dialect

const (
	Postgres = goose.DialectPostgres
	SQLite   = goose.DialectSQLite3
)

// Step is one versioned edge in the ledger.
type Step struct {
	Version int64
	Name    string
	Apply   func(ctx context.Context, tx *sql.Tx, d Dialect) error
}

// Steps returns the ledger in version order.
func Steps() []Step {
	return []Step{
		{Version: 1, Name: "create trips", Apply: createTrips},
		{Version: 2, Name: "activity window and budget", Apply: addActivityWindow},
		{Version: 3, Name: "preferences and members", Apply: addPreferences},
		{Version: 4, Name: "slot-shaped days", Apply: upgradeLegacyDays},
		{Version: 5, Name: "listing indexes", Apply: addListingIndexes},
	}
}

// Latest is the version the ledger migrates to.
func Latest() int64 {
	steps := Steps()
	return steps[len(steps)-1].Version
}

// NewProvider builds a goose provider over db whose only migrations are the
// ledger's steps. Each step runs in its own transaction. No down migrations
// are registered.
func NewProvider(db *sql.DB, d Dialect) (*goose.Provider, error) {
	steps := Steps()
	ms := make([]*goose.Migration, 0, len(steps))
	for _, s := range steps {
		ms = append(ms, goose.NewGoMigration(s.Version, &goose.GoFunc{
			RunTx: func(ctx context.Context, tx *sql.Tx) error {
				if err := s.Apply(ctx, tx, d); err != nil {
					return fmt.Errorf("migrations: v%d %s: %w", s.Version, s.Name, err)
				}
				return nil
			},
		}, nil))
	}

	p, err := goose.NewProvider(d, db, nil,
		goose.WithDisableGlobalRegistry(true),
		goose.WithGoMigrations(ms...),
	)
	if err != nil {
		return nil, fmt.Errorf("migrations.NewProvider: %w", err)
	}
	return p, nil
}

// Up detects the current version of db and replays every pending step in
// order. An error leaves the database at the last fully applied version and
// must be treated as fatal by the caller.
func Up(ctx context.Context, db *sql.DB, d Dialect, logger *slog.Logger) error {
	p, err := NewProvider(db, d)
	if err != nil {
		return err
	}

	results, err := p.Up(ctx)
	for _, r := range results {
		if r.Error != nil {
			continue
		}
		logger.Info("migration applied",
			"version", r.Source.Version,
			"duration_ms", r.Duration.Milliseconds(),
		)
	}
	if err != nil {
		return fmt.Errorf("migrations.Up: %w", err)
	}

	v, err := p.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("migrations.Up: version: %w", err)
	}
	logger.Info("schema up to date", "version", v, "applied", len(results))
	return nil
}
