package service

import (
	"context"
	"fmt"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// ExportTrip returns one ExportRow per activity of the cached trip.
// Days with no activities contribute one row with empty activity fields.
func (s *TripService) ExportTrip(ctx context.Context, tripID string) ([]domain.ExportRow, error) {
	t, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ExportTrip: %w", err)
	}
	return t.ExportRows(), nil
}

// ExportMyTrips flattens every cached trip created by userID, in the order
// GetMyTrips returns them.
func (s *TripService) ExportMyTrips(ctx context.Context, userID string) ([]domain.ExportRow, error) {
	trips, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ExportMyTrips: %w", err)
	}
	rows := []domain.ExportRow{}
	for _, t := range trips {
		rows = append(rows, t.ExportRows()...)
	}
	return rows, nil
}
