package port

import "listing-ingest-service/internal/core/domain"

// OutputWriterPort streams accepted records into the per-source output file.
// Append must keep the file a valid JSON array after every completed call;
// Close terminates the array.
type OutputWriterPort interface {
	Append(listing *domain.Listing) error
	Close() error
}
