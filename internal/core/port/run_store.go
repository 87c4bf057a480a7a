package port

import (
	"context"
	"listing-ingest-service/internal/core/domain"

	"github.com/google/uuid"
)

// RunStorePort persists run history, live progress and captured log lines,
// and exposes the stop flag the orchestration layer flips to cancel a run.
type RunStorePort interface {
	CreateRun(ctx context.Context, runID uuid.UUID, source string) error

	AppendLog(ctx context.Context, runID uuid.UUID, line string) error

	UpdateProgress(ctx context.Context, runID uuid.UUID, stats *domain.RunStats) error

	FinishRun(ctx context.Context, runID uuid.UUID, status domain.RunStatus, stats *domain.RunStats) error

	// ShouldStop reports whether the persisted status was flipped to a
	// stop/fail state. Polled at a coarse interval; cancellation is
	// cooperative and best-effort.
	ShouldStop(ctx context.Context, runID uuid.UUID) (bool, error)
}
