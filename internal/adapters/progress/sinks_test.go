package progress

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"listing-ingest-service/internal/contextkeys"
	"listing-ingest-service/internal/core/domain"
)

type recordingStore struct {
	lines []string
	fail  bool
}

func (s *recordingStore) CreateRun(ctx context.Context, runID uuid.UUID, source string) error {
	return nil
}

func (s *recordingStore) AppendLog(ctx context.Context, runID uuid.UUID, line string) error {
	if s.fail {
		return errors.New("store down")
	}
	s.lines = append(s.lines, line)
	return nil
}

func (s *recordingStore) UpdateProgress(ctx context.Context, runID uuid.UUID, stats *domain.RunStats) error {
	return nil
}

func (s *recordingStore) FinishRun(ctx context.Context, runID uuid.UUID, status domain.RunStatus, stats *domain.RunStats) error {
	return nil
}

func (s *recordingStore) ShouldStop(ctx context.Context, runID uuid.UUID) (bool, error) {
	return false, nil
}

func TestStoreSinkPersistsLines(t *testing.T) {
	store := &recordingStore{}
	sink := NewStoreSink(store)

	ctx := contextkeys.ContextWithRunID(context.Background(), uuid.New())
	sink.Emit(ctx, "✅ [1/10] Uploaded TP-1 (created)")
	sink.Emit(ctx, "⚠️ [2/10] Skipped: invalid_price")

	assert.Equal(t, []string{
		"✅ [1/10] Uploaded TP-1 (created)",
		"⚠️ [2/10] Skipped: invalid_price",
	}, store.lines)
}

func TestStoreSinkSwallowsStoreFailure(t *testing.T) {
	sink := NewStoreSink(&recordingStore{fail: true})
	assert.NotPanics(t, func() {
		sink.Emit(context.Background(), "✅ line")
	})
}

func TestMultiSinkFansOut(t *testing.T) {
	first := &recordingStore{}
	second := &recordingStore{}
	sink := NewMultiSink(NewStoreSink(first), NewStoreSink(second), NewLoggerSink())

	sink.Emit(context.Background(), "❌ [3/10] Upload failed for TP-3")

	assert.Equal(t, []string{"❌ [3/10] Upload failed for TP-3"}, first.lines)
	assert.Equal(t, []string{"❌ [3/10] Upload failed for TP-3"}, second.lines)
}
