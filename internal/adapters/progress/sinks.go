package progress

import (
	"context"
	"strings"

	"listing-ingest-service/internal/contextkeys"
	"listing-ingest-service/internal/core/port"
)

// LoggerSink forwards progress lines to the structured logger carried in
// the context, mapping the emoji prefix to a log level.
type LoggerSink struct{}

func NewLoggerSink() *LoggerSink {
	return &LoggerSink{}
}

func (s *LoggerSink) Emit(ctx context.Context, line string) {
	logger := contextkeys.LoggerFromContext(ctx)
	switch {
	case strings.HasPrefix(line, "❌"):
		logger.Error(line, nil, nil)
	case strings.HasPrefix(line, "⚠️"):
		logger.Warn(line, nil)
	default:
		logger.Info(line, nil)
	}
}

// StoreSink persists progress lines into the run store. Storage failures
// are logged and swallowed; losing a progress line must not fail the run.
type StoreSink struct {
	store port.RunStorePort
}

func NewStoreSink(store port.RunStorePort) *StoreSink {
	return &StoreSink{store: store}
}

func (s *StoreSink) Emit(ctx context.Context, line string) {
	runID := contextkeys.RunIDFromContext(ctx)
	if err := s.store.AppendLog(ctx, runID, line); err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to persist progress line", err, nil)
	}
}

// MultiSink fans one progress line out to every configured sink in order.
type MultiSink struct {
	sinks []port.ProgressSinkPort
}

func NewMultiSink(sinks ...port.ProgressSinkPort) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (s *MultiSink) Emit(ctx context.Context, line string) {
	for _, sink := range s.sinks {
		sink.Emit(ctx, line)
	}
}
