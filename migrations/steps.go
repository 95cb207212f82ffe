package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkordes/trip-planner/backend/internal/itinerary"
)

func createTrips(ctx context.Context, tx *sql.Tx, _ Dialect) error {
	const q = `
		CREATE TABLE IF NOT EXISTS trips (
			id         TEXT PRIMARY KEY,
			created_by TEXT NOT NULL,
			name       TEXT NOT NULL,
			locations  TEXT NOT NULL DEFAULT '',
			start_date TEXT,
			end_date   TEXT,
			visibility TEXT NOT NULL DEFAULT 'PRIVATE',
			days       TEXT NOT NULL DEFAULT '[]'
		)`
	_, err := tx.ExecContext(ctx, q)
	return err
}

func addActivityWindow(ctx context.Context, tx *sql.Tx, d Dialect) error {
	return addColumns(ctx, tx, d, []column{
		{name: "activity_start", def: "TEXT"},
		{name: "activity_end", def: "TEXT"},
		{name: "total_budget", def: "INTEGER"},
	})
}

func addPreferences(ctx context.Context, tx *sql.Tx, d Dialect) error {
	return addColumns(ctx, tx, d, []column{
		{name: "avg_age", def: "TEXT NOT NULL DEFAULT 'IGNORE'"},
		{name: "transport_preferences", def: "TEXT NOT NULL DEFAULT '[]'"},
		{name: "use_gmaps_rating", def: "INTEGER NOT NULL DEFAULT 0"},
		{name: "styles", def: "TEXT NOT NULL DEFAULT '[]'"},
		{name: "members", def: "TEXT NOT NULL DEFAULT '[]'"},
	})
}

// upgradeLegacyDays rewrites rows whose days were stored in the flat
// per-day activity list so that only the slot shape exists at runtime.
func upgradeLegacyDays(ctx context.Context, tx *sql.Tx, d Dialect) error {
	rows, err := tx.QueryContext(ctx, `SELECT id, days FROM trips`)
	if err != nil {
		return err
	}

	type pending struct {
		id   string
		days []byte
	}
	var updates []pending
	for rows.Next() {
		var (
			id  string
			raw string
		)
		if err := rows.Scan(&id, &raw); err != nil {
			rows.Close()
			return err
		}
		out, changed, err := itinerary.UpgradeLegacyDays([]byte(raw))
		if err != nil {
			rows.Close()
			return fmt.Errorf("trip %s: %w", id, err)
		}
		if changed {
			updates = append(updates, pending{id: id, days: out})
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	q := fmt.Sprintf(`UPDATE trips SET days = %s WHERE id = %s`, placeholder(d, 1), placeholder(d, 2))
	for _, u := range updates {
		if _, err := tx.ExecContext(ctx, q, string(u.days), u.id); err != nil {
			return fmt.Errorf("trip %s: %w", u.id, err)
		}
	}
	return nil
}

func addListingIndexes(ctx context.Context, tx *sql.Tx, _ Dialect) error {
	for _, q := range []string{
		`CREATE INDEX IF NOT EXISTS trips_created_by_idx ON trips (created_by)`,
		`CREATE INDEX IF NOT EXISTS trips_visibility_idx ON trips (visibility)`,
	} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

type column struct {
	name string
	def  string
}

// addColumns adds each column to trips unless it is already there.
// Postgres can say so in the DDL; SQLite has to be asked first.
func addColumns(ctx context.Context, tx *sql.Tx, d Dialect, cols []column) error {
	for _, c := range cols {
		if d == Postgres {
			q := fmt.Sprintf(`ALTER TABLE trips ADD COLUMN IF NOT EXISTS %s %s`, c.name, c.def)
			if _, err := tx.ExecContext(ctx, q); err != nil {
				return err
			}
			continue
		}

		exists, err := sqliteHasColumn(ctx, tx, "trips", c.name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		q := fmt.Sprintf(`ALTER TABLE trips ADD COLUMN %s %s`, c.name, c.def)
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func sqliteHasColumn(ctx context.Context, tx *sql.Tx, table, col string) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, col,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func placeholder(d Dialect, n int) string {
	if d == Postgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}
