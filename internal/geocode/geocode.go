package geocode

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrNoResult           = errors.New("no address found")
)

// Address is the result of reverse geocoding a point
type Address struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formatted_address"`
	City             string  `json:"city,omitempty"`
	Country          string  `json:"country,omitempty"`
}

// Geocoder turns coordinates into a street address
type Geocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (*Address, error)
}

func validate(lat, lng float64) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return fmt.Errorf("%w: %f,%f", ErrInvalidCoordinates, lat, lng)
	}
	return nil
}
