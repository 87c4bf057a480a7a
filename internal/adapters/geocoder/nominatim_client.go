package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hashicorp/go-retryablehttp"

	"listing-ingest-service/internal/configs"
	"listing-ingest-service/internal/core/domain"
)

// NominatimClient resolves free-text addresses through a Nominatim-compatible
// search endpoint.
type NominatimClient struct {
	http    *retryablehttp.Client
	baseURL string
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Address     struct {
		Country  string `json:"country"`
		City     string `json:"city"`
		Town     string `json:"town"`
		Village  string `json:"village"`
		State    string `json:"state"`
		Postcode string `json:"postcode"`
	} `json:"address"`
}

func NewNominatimClient(cfg configs.GeocoderConfig) *NominatimClient {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.Logger = nil

	return &NominatimClient{http: rc, baseURL: cfg.BaseURL}
}

// Resolve returns (nil, nil) when the geocoder has no result for the
// address; that is the not-found case, not an error.
func (c *NominatimClient) Resolve(ctx context.Context, address string) (*domain.Coordinates, error) {
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("addressdetails", "1")

	endpoint := fmt.Sprintf("%s/search?%s", c.baseURL, q.Encode())
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("geocoder: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "listing-ingest-service/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoder: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("geocoder: failed to read response: %w", err)
	}

	var results []nominatimResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, fmt.Errorf("geocoder: failed to unmarshal response: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	return toCoordinates(results[0])
}

func toCoordinates(r nominatimResult) (*domain.Coordinates, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geocoder: bad latitude %q: %w", r.Lat, err)
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geocoder: bad longitude %q: %w", r.Lon, err)
	}

	city := r.Address.City
	if city == "" {
		city = r.Address.Town
	}
	if city == "" {
		city = r.Address.Village
	}

	return &domain.Coordinates{
		Latitude:  lat,
		Longitude: lon,
		Country:   r.Address.Country,
		City:      city,
		State:     r.Address.State,
		ZipCode:   r.Address.Postcode,
		Address:   r.DisplayName,
	}, nil
}
