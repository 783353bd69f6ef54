package geocode

import (
	"context"
	"fmt"

	"carrental-backend/internal/logger"

	"googlemaps.github.io/maps"
)

type GoogleClient struct {
	client *maps.Client
}

// NewGoogleClient builds a Google Geocoding client. Extra options are passed to maps.NewClient.
func NewGoogleClient(apiKey string, opts ...maps.ClientOption) (*GoogleClient, error) {
	c, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleClient{client: c}, nil
}

func (g *GoogleClient) Reverse(ctx context.Context, lat, lng float64) (*Address, error) {
	if err := validate(lat, lng); err != nil {
		return nil, err
	}

	logger.ExternalServiceCall("google_maps", "reverse_geocode", "lat", lat, "lng", lng)
	results, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: lat, Lng: lng},
	})
	logger.ExternalServiceResult("google_maps", "reverse_geocode", err)
	if err != nil {
		return nil, fmt.Errorf("reverse geocode failed: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNoResult
	}

	addr := &Address{Latitude: lat, Longitude: lng, FormattedAddress: results[0].FormattedAddress}
	for _, c := range results[0].AddressComponents {
		for _, t := range c.Types {
			switch t {
			case "locality":
				addr.City = c.LongName
			case "country":
				addr.Country = c.LongName
			}
		}
	}
	return addr, nil
}
