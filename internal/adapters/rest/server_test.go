package rest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logger_adapter "listing-ingest-service/internal/adapters/logger"
	"listing-ingest-service/internal/core/domain"
)

func testRouter(tracker *InMemoryStatusTracker) http.Handler {
	logger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{Writer: io.Discard})
	return NewRouter(NewStatusHandler("homesite", tracker), logger)
}

func TestHealthz(t *testing.T) {
	server := httptest.NewServer(testRouter(NewInMemoryStatusTracker("homesite")))
	defer server.Close()

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetRunStatus(t *testing.T) {
	tracker := NewInMemoryStatusTracker("homesite")
	stats := domain.NewRunStats("homesite")
	stats.Discovered = 120
	stats.Extracted = 80
	stats.Written = 75
	stats.Created = 40
	stats.Updated = 35
	stats.Skipped[domain.SkipInvalidPrice] = 5
	tracker.Record(*stats)

	server := httptest.NewServer(testRouter(tracker))
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/run/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body runStatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "homesite", body.Source)
	assert.Equal(t, 120, body.Discovered)
	assert.Equal(t, 75, body.Written)
	assert.Equal(t, 5, body.SkippedTotal)
	assert.Equal(t, 5, body.Skipped["invalid_price"])
}

func TestStatusTrackerSnapshotIsolated(t *testing.T) {
	tracker := NewInMemoryStatusTracker("homesite")
	stats := domain.NewRunStats("homesite")
	stats.Skipped[domain.SkipNoImages] = 1
	tracker.Record(*stats)

	snapshot := tracker.Snapshot()
	snapshot.Skipped[domain.SkipNoImages] = 99

	assert.Equal(t, 1, tracker.Snapshot().Skipped[domain.SkipNoImages])
}
