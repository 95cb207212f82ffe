// Package repo contains the persisted trip cache.
// TripRepo has a Postgres implementation (pgx) and a SQLite implementation
// (database/sql + modernc); both share one row codec and one set of queries.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripRepo defines the persistence operations for the trip cache.
// The service layer depends on this interface, not on a concrete store.
type TripRepo interface {
	// Upsert writes the trip keyed by its id. An existing row with the same id
	// is overwritten entirely (last write wins, no merge).
	Upsert(ctx context.Context, trip domain.Trip) error

	// GetByID retrieves a single trip.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id string) (domain.Trip, error)

	// List returns every cached trip, most recent start date first.
	List(ctx context.Context) ([]domain.Trip, error)

	// ListByOwner returns the trips whose createdBy equals userID.
	ListByOwner(ctx context.Context, userID string) ([]domain.Trip, error)

	// ListPublic returns the trips whose visibility is PUBLIC.
	ListPublic(ctx context.Context) ([]domain.Trip, error)

	// Delete removes a trip by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error
}

const (
	upsertTripSQL = `
		INSERT INTO trips (` + tripColumns + `)
		VALUES (@id, @created_by, @name, @locations, @total_budget, @start_date, @end_date,
		        @activity_start, @activity_end, @avg_age, @transport_preferences, @use_gmaps_rating,
		        @styles, @visibility, @members, @days)
		ON CONFLICT (id) DO UPDATE SET
			created_by            = excluded.created_by,
			name                  = excluded.name,
			locations             = excluded.locations,
			total_budget          = excluded.total_budget,
			start_date            = excluded.start_date,
			end_date              = excluded.end_date,
			activity_start        = excluded.activity_start,
			activity_end          = excluded.activity_end,
			avg_age               = excluded.avg_age,
			transport_preferences = excluded.transport_preferences,
			use_gmaps_rating      = excluded.use_gmaps_rating,
			styles                = excluded.styles,
			visibility            = excluded.visibility,
			members               = excluded.members,
			days                  = excluded.days`

	getTripSQL = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	// NULL start dates sort last in both dialects.
	listOrder = ` ORDER BY start_date IS NULL, start_date DESC, id`

	listTripsSQL        = `SELECT ` + tripColumns + ` FROM trips` + listOrder
	listTripsByOwnerSQL = `SELECT ` + tripColumns + ` FROM trips WHERE created_by = @created_by` + listOrder
	listPublicTripsSQL  = `SELECT ` + tripColumns + ` FROM trips WHERE visibility = @visibility` + listOrder

	deleteTripSQL = `DELETE FROM trips WHERE id = @id`
)

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a Postgres TripRepo backed by the provided connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

// Upsert inserts or overwrites the trip row.
func (r *pgTripRepo) Upsert(ctx context.Context, trip domain.Trip) error {
	row, err := encodeTrip(trip)
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Upsert: %w", err)
	}

	if _, err := r.db.Exec(ctx, upsertTripSQL, pgx.NamedArgs(row.args())); err != nil {
		return fmt.Errorf("repo.TripRepo.Upsert: %w", err)
	}
	return nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id string) (domain.Trip, error) {
	result, err := scanTrip(r.db.QueryRow(ctx, getTripSQL, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns all trips.
func (r *pgTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	return r.list(ctx, "repo.TripRepo.List", listTripsSQL)
}

// ListByOwner returns the trips created by userID.
func (r *pgTripRepo) ListByOwner(ctx context.Context, userID string) ([]domain.Trip, error) {
	return r.list(ctx, "repo.TripRepo.ListByOwner", listTripsByOwnerSQL, pgx.NamedArgs{"created_by": userID})
}

// ListPublic returns the public trips.
func (r *pgTripRepo) ListPublic(ctx context.Context) ([]domain.Trip, error) {
	return r.list(ctx, "repo.TripRepo.ListPublic", listPublicTripsSQL,
		pgx.NamedArgs{"visibility": string(domain.VisibilityPublic)})
}

func (r *pgTripRepo) list(ctx context.Context, op, q string, args ...any) ([]domain.Trip, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
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

// Delete removes a trip by primary key.
func (r *pgTripRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, deleteTripSQL, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanTrip maps a single pgx row into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var row tripRow
	if err := s.Scan(row.dest()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}
	return row.decode()
}
