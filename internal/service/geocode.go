package service

import (
	"context"
	"errors"
	"fmt"

	"carrental-backend/internal/geocode"
)

type geocodeService struct {
	geocoder geocode.Geocoder
}

func NewGeocodeService(geocoder geocode.Geocoder) GeocodeService {
	return &geocodeService{geocoder: geocoder}
}

func (s *geocodeService) Reverse(ctx context.Context, lat, lng float64) (*geocode.Address, error) {
	addr, err := s.geocoder.Reverse(ctx, lat, lng)
	switch {
	case errors.Is(err, geocode.ErrInvalidCoordinates):
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, geocode.ErrNoResult):
		return nil, fmt.Errorf("address: %w", ErrNotFound)
	}
	return addr, err
}
