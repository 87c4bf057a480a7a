package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"listing-ingest-service/internal/core/port"
)

// StatusHandler serves the live run counters of the current process.
type StatusHandler struct {
	source    string
	tracker   port.StatusTrackerPort
	startedAt time.Time
}

func NewStatusHandler(source string, tracker port.StatusTrackerPort) *StatusHandler {
	return &StatusHandler{
		source:    source,
		tracker:   tracker,
		startedAt: time.Now().UTC(),
	}
}

type runStatusResponse struct {
	Source       string         `json:"source"`
	StartedAt    time.Time      `json:"started_at"`
	Discovered   int            `json:"discovered"`
	Extracted    int            `json:"extracted"`
	Written      int            `json:"written"`
	Created      int            `json:"created"`
	Updated      int            `json:"updated"`
	Failed       int            `json:"failed"`
	SkippedTotal int            `json:"skipped_total"`
	Skipped      map[string]int `json:"skipped"`
}

func (h *StatusHandler) GetRunStatus(w http.ResponseWriter, r *http.Request) {
	stats := h.tracker.Snapshot()

	skipped := make(map[string]int, len(stats.Skipped))
	for reason, n := range stats.Skipped {
		skipped[string(reason)] = n
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, runStatusResponse{
		Source:       h.source,
		StartedAt:    h.startedAt,
		Discovered:   stats.Discovered,
		Extracted:    stats.Extracted,
		Written:      stats.Written,
		Created:      stats.Created,
		Updated:      stats.Updated,
		Failed:       stats.Failed,
		SkippedTotal: stats.SkippedTotal(),
		Skipped:      skipped,
	})
}

func (h *StatusHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]string{"status": "ok", "source": h.source})
}
