package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"carrental-backend/internal/logger"

	"golang.org/x/time/rate"
)

const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// NominatimClient queries OpenStreetMap. The public instance allows one request per second.
type NominatimClient struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
}

func NewNominatimClient(baseURL, userAgent string, requestsPerSecond float64) *NominatimClient {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &NominatimClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		http:      &http.Client{Timeout: 10 * time.Second},
		limiter:   rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

type nominatimResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
	Address     struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		Country string `json:"country"`
	} `json:"address"`
}

func (c *NominatimClient) Reverse(ctx context.Context, lat, lng float64) (*Address, error) {
	if err := validate(lat, lng); err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	logger.ExternalServiceCall("nominatim", "reverse", "lat", lat, "lng", lng)
	resp, err := c.http.Do(req)
	if err != nil {
		logger.ExternalServiceResult("nominatim", "reverse", err)
		return nil, fmt.Errorf("nominatim request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("nominatim returned status %d", resp.StatusCode)
		logger.ExternalServiceResult("nominatim", "reverse", err)
		return nil, err
	}

	var body nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode nominatim response: %w", err)
	}
	logger.ExternalServiceResult("nominatim", "reverse", nil)

	if body.Error != "" || body.DisplayName == "" {
		return nil, ErrNoResult
	}

	city := body.Address.City
	if city == "" {
		city = body.Address.Town
	}
	if city == "" {
		city = body.Address.Village
	}
	return &Address{
		Latitude:         lat,
		Longitude:        lng,
		FormattedAddress: body.DisplayName,
		City:             city,
		Country:          body.Address.Country,
	}, nil
}
