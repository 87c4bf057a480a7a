package rest

import (
	"sync"

	"listing-ingest-service/internal/core/domain"
)

// InMemoryStatusTracker keeps the latest run counters for the status
// endpoint. Record is called from the run goroutine, Snapshot from request
// handlers.
type InMemoryStatusTracker struct {
	mu    sync.RWMutex
	stats domain.RunStats
}

func NewInMemoryStatusTracker(source string) *InMemoryStatusTracker {
	return &InMemoryStatusTracker{stats: *domain.NewRunStats(source)}
}

func (t *InMemoryStatusTracker) Record(stats domain.RunStats) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats = stats
	t.stats.Skipped = copySkipped(stats.Skipped)
}

func (t *InMemoryStatusTracker) Snapshot() domain.RunStats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	snapshot := t.stats
	snapshot.Skipped = copySkipped(t.stats.Skipped)
	return snapshot
}

func copySkipped(in map[domain.SkipReason]int) map[domain.SkipReason]int {
	out := make(map[domain.SkipReason]int, len(in))
	for reason, n := range in {
		out[reason] = n
	}
	return out
}
