package service

import (
	"context"
	"fmt"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// SetTripFormForPreview validates form and parks it for the preview step.
// The returned token is the only way to read it back.
func (s *TripService) SetTripFormForPreview(ctx context.Context, form domain.TripForm) (string, error) {
	if err := s.validate.Validate(form); err != nil {
		return "", fmt.Errorf("service.TripService.SetTripFormForPreview: %w", err)
	}
	token, err := s.previews.Put(ctx, form)
	if err != nil {
		return "", fmt.Errorf("service.TripService.SetTripFormForPreview: %w", err)
	}
	return token, nil
}

// UpdateTripFormForPreview overwrites the form held under token.
func (s *TripService) UpdateTripFormForPreview(ctx context.Context, token string, form domain.TripForm) error {
	if err := s.validate.Validate(form); err != nil {
		return fmt.Errorf("service.TripService.UpdateTripFormForPreview: %w", err)
	}
	if err := s.previews.Replace(ctx, token, form); err != nil {
		return fmt.Errorf("service.TripService.UpdateTripFormForPreview: %w", err)
	}
	return nil
}

// GetTripFormForPreview returns the form held under token. With consume set,
// the form is removed in the same step, so a second read fails with
// domain.ErrNotFound.
func (s *TripService) GetTripFormForPreview(ctx context.Context, token string, consume bool) (domain.TripForm, error) {
	form, err := s.previews.Get(ctx, token, consume)
	if err != nil {
		return domain.TripForm{}, fmt.Errorf("service.TripService.GetTripFormForPreview: %w", err)
	}
	return form, nil
}

// ClearTripFormForPreview discards the form held under token, if any.
func (s *TripService) ClearTripFormForPreview(ctx context.Context, token string) error {
	if err := s.previews.Clear(ctx, token); err != nil {
		return fmt.Errorf("service.TripService.ClearTripFormForPreview: %w", err)
	}
	return nil
}
