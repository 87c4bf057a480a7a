package extract

import (
	"context"
	"strings"

	"listing-ingest-service/internal/contextkeys"
	"listing-ingest-service/internal/core/domain"
	"listing-ingest-service/internal/core/port"
)

// NarrowAddress drops the middle component of a comma-separated address,
// typically the state or city, to give the geocoder a second chance when the
// full string resolves into the wrong country.
func NarrowAddress(address string) string {
	parts := strings.Split(address, ",")
	if len(parts) < 3 {
		return address
	}
	middle := len(parts) / 2
	narrowed := append(append([]string{}, parts[:middle]...), parts[middle+1:]...)
	for i := range narrowed {
		narrowed[i] = strings.TrimSpace(narrowed[i])
	}
	return strings.Join(narrowed, ", ")
}

// ResolveValidated resolves an address and cross-validates the resolved
// country against the source's declared country. On mismatch it retries
// exactly once with the narrowed address; a second mismatch returns
// (nil, nil) and the caller must drop the record. Every source adapter uses
// this same protocol.
func ResolveValidated(ctx context.Context, geocoder port.GeocoderPort, address, declaredCountry string) (*domain.Coordinates, error) {
	logger := contextkeys.LoggerFromContext(ctx)

	coords, err := geocoder.Resolve(ctx, address)
	if err != nil {
		return nil, err
	}
	if coords != nil && countryMatches(coords.Country, declaredCountry) {
		return coords, nil
	}

	narrowed := NarrowAddress(address)
	if coords != nil {
		logger.Debug("Resolved country mismatch, retrying with narrowed address", port.Fields{
			"address":          address,
			"narrowed":         narrowed,
			"resolved_country": coords.Country,
			"declared_country": declaredCountry,
		})
	}

	coords, err = geocoder.Resolve(ctx, narrowed)
	if err != nil {
		return nil, err
	}
	if coords != nil && countryMatches(coords.Country, declaredCountry) {
		return coords, nil
	}

	// Never a third attempt.
	return nil, nil
}

func countryMatches(resolved, declared string) bool {
	if declared == "" {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(resolved), strings.TrimSpace(declared))
}
