package port

import (
	"context"
	"listing-ingest-service/internal/core/domain"
)

// GeocoderPort resolves a free-text address to coordinates and an address
// breakdown. A (nil, nil) return means the address could not be resolved;
// that is not an error.
type GeocoderPort interface {
	Resolve(ctx context.Context, address string) (*domain.Coordinates, error)
}
