package port

import "listing-ingest-service/internal/core/domain"

// StatusTrackerPort exposes a snapshot of the live run counters to the
// in-process status endpoint.
type StatusTrackerPort interface {
	Record(stats domain.RunStats)
	Snapshot() domain.RunStats
}
