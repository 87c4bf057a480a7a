package usecases_port

import (
	"context"
	"listing-ingest-service/internal/core/domain"
)

type RunSourcePort interface {
	Execute(ctx context.Context) (*domain.RunStats, error)
}
