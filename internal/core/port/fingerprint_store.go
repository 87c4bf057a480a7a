package port

import (
	"context"

	"listing-ingest-service/internal/core/domain"
)

// FingerprintStorePort remembers which listings were already delivered
// downstream so re-runs and cross-page duplicates can be skipped.
type FingerprintStorePort interface {
	// SeenBefore reports whether the listing's fingerprint was already
	// delivered. It records nothing.
	SeenBefore(ctx context.Context, listing *domain.Listing) (bool, error)

	// MarkSeen records the fingerprint once the listing actually reached
	// its destination; a listing whose upload failed stays unmarked so
	// the next run retries it.
	MarkSeen(ctx context.Context, listing *domain.Listing) error
}
