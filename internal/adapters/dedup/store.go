package dedup

import (
	"context"
	"time"

	"listing-ingest-service/internal/adapters/rediscache"
	"listing-ingest-service/internal/core/domain"
)

// RedisFingerprintStore remembers delivered fingerprints across runs so a
// listing already present downstream is skipped instead of re-uploaded.
type RedisFingerprintStore struct {
	cache *rediscache.Client
	ttl   time.Duration
}

func NewRedisFingerprintStore(cache *rediscache.Client, ttl time.Duration) *RedisFingerprintStore {
	return &RedisFingerprintStore{cache: cache, ttl: ttl}
}

func (s *RedisFingerprintStore) SeenBefore(ctx context.Context, listing *domain.Listing) (bool, error) {
	val, err := s.cache.Get(ctx, fingerprintKey(listing))
	if err != nil {
		return false, err
	}
	return val != "", nil
}

// MarkSeen is called only after the listing reached its destination, so a
// failed upload never poisons later runs with a duplicate skip.
func (s *RedisFingerprintStore) MarkSeen(ctx context.Context, listing *domain.Listing) error {
	return s.cache.Set(ctx, fingerprintKey(listing), "1", s.ttl)
}

func fingerprintKey(listing *domain.Listing) string {
	return "fingerprint:" + BuildFingerprint(listing)
}
