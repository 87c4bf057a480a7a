package contextkeys

import (
	"context"

	"github.com/google/uuid"
)

type runIDKeyType struct{}

var runIDKey = runIDKeyType{}

// ContextWithRunID puts the run ID into the context.
func ContextWithRunID(ctx context.Context, runID uuid.UUID) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext extracts the run ID, or uuid.Nil when absent.
func RunIDFromContext(ctx context.Context) uuid.UUID {
	if runID, ok := ctx.Value(runIDKey).(uuid.UUID); ok {
		return runID
	}
	return uuid.Nil
}
