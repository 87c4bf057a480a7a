package port

import (
	"context"
	"listing-ingest-service/internal/core/domain"
)

// UploaderPort sends one canonical record to the downstream property API.
// Retries within one Send are bounded; the result reports how the upstream
// classified the record (created vs updated) and how many attempts were made.
type UploaderPort interface {
	Send(ctx context.Context, listing *domain.Listing) (*domain.UploadResult, error)
}
