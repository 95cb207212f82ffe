package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// sqliteTripRepo is the SQLite implementation of TripRepo. SQLite accepts the
// same @name placeholders as pgx, so it runs the same queries.
type sqliteTripRepo struct {
	db *sql.DB
}

// NewSQLiteTripRepo constructs a TripRepo backed by a SQLite database opened
// with OpenSQLite.
func NewSQLiteTripRepo(db *sql.DB) TripRepo {
	return &sqliteTripRepo{db: db}
}

func (r *sqliteTripRepo) Upsert(ctx context.Context, trip domain.Trip) error {
	row, err := encodeTrip(trip)
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, upsertTripSQL, named(row.args())...); err != nil {
		return fmt.Errorf("repo.TripRepo.Upsert: %w", err)
	}
	return nil
}

func (r *sqliteTripRepo) GetByID(ctx context.Context, id string) (domain.Trip, error) {
	result, err := scanSQLTrip(r.db.QueryRowContext(ctx, getTripSQL, sql.Named("id", id)))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *sqliteTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	return r.list(ctx, "repo.TripRepo.List", listTripsSQL)
}

func (r *sqliteTripRepo) ListByOwner(ctx context.Context, userID string) ([]domain.Trip, error) {
	return r.list(ctx, "repo.TripRepo.ListByOwner", listTripsByOwnerSQL, sql.Named("created_by", userID))
}

func (r *sqliteTripRepo) ListPublic(ctx context.Context) ([]domain.Trip, error) {
	return r.list(ctx, "repo.TripRepo.ListPublic", listPublicTripsSQL,
		sql.Named("visibility", string(domain.VisibilityPublic)))
}

func (r *sqliteTripRepo) list(ctx context.Context, op, q string, args ...any) ([]domain.Trip, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanSQLTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return trips, nil
}

func (r *sqliteTripRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteTripSQL, sql.Named("id", id))
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanSQLTrip(s scanner) (domain.Trip, error) {
	var row tripRow
	if err := s.Scan(row.dest()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}
	return row.decode()
}

func named(args map[string]any) []any {
	out := make([]any, 0, len(args))
	for k, v := range args {
		out = append(out, sql.Named(k, v))
	}
	return out
}
