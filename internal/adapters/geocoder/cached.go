package geocoder

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"listing-ingest-service/internal/adapters/rediscache"
	"listing-ingest-service/internal/contextkeys"
	"listing-ingest-service/internal/core/domain"
	"listing-ingest-service/internal/core/port"
)

// CachedGeocoder is a read-through Redis cache in front of another geocoder,
// keeping re-runs over the same sources cheap and stable. Not-found results
// are cached too so dead addresses are not re-resolved every run.
type CachedGeocoder struct {
	inner port.GeocoderPort
	cache *rediscache.Client
	ttl   time.Duration
}

const notFoundMarker = "__none__"

func NewCachedGeocoder(inner port.GeocoderPort, cache *rediscache.Client, ttl time.Duration) *CachedGeocoder {
	return &CachedGeocoder{inner: inner, cache: cache, ttl: ttl}
}

func (c *CachedGeocoder) Resolve(ctx context.Context, address string) (*domain.Coordinates, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	key := cacheKey(address)

	cached, err := c.cache.Get(ctx, key)
	if err != nil {
		// Cache trouble never fails a resolution; fall through to the
		// real geocoder.
		logger.Warn("Geocode cache read failed", port.Fields{"error": err.Error()})
	} else if cached == notFoundMarker {
		return nil, nil
	} else if cached != "" {
		var coords domain.Coordinates
		if err := json.Unmarshal([]byte(cached), &coords); err == nil {
			return &coords, nil
		}
	}

	coords, err := c.inner.Resolve(ctx, address)
	if err != nil {
		return nil, err
	}

	value := notFoundMarker
	if coords != nil {
		if encoded, err := json.Marshal(coords); err == nil {
			value = string(encoded)
		}
	}
	if err := c.cache.Set(ctx, key, value, c.ttl); err != nil {
		logger.Warn("Geocode cache write failed", port.Fields{"error": err.Error()})
	}

	return coords, nil
}

func cacheKey(address string) string {
	return "geocode:" + strings.ToLower(strings.Join(strings.Fields(address), " "))
}
