package port

import (
	"context"
	"listing-ingest-service/internal/core/domain"
)

// SourceAdapterPort is the contract one configured listing source implements,
// whether it scrapes rendered HTML pages or parses an XML feed.
type SourceAdapterPort interface {
	// Name identifies the source in logs and run records.
	Name() string

	// Discover enumerates candidate listings: paginated index pages for
	// website sources, feed records for XML sources. The returned set is
	// deduplicated by the full extracted tuple. A single failed index page
	// is skipped with a warning, not fatal; a malformed XML document is
	// fatal to the run.
	Discover(ctx context.Context) ([]domain.ListingRef, error)

	// Extract builds the canonical record for one discovered listing.
	// A *domain.SkipError return means the listing failed a drop rule;
	// any other error means the listing could not be fetched or parsed
	// and is skipped by the caller without aborting the run.
	Extract(ctx context.Context, ref domain.ListingRef) (*domain.Listing, error)
}
