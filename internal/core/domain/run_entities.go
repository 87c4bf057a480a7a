package domain

import "fmt"

// SkipReason names a validation drop. Drops are expected and frequent; they
// are logged and counted, never treated as run failures.
type SkipReason string

const (
	SkipMissingTitle    SkipReason = "missing_title"
	SkipInvalidPrice    SkipReason = "invalid_price"
	SkipNoType          SkipReason = "no_allowed_type"
	SkipNoStatus        SkipReason = "no_allowed_status"
	SkipNoImages        SkipReason = "not_enough_images"
	SkipCountryMismatch SkipReason = "country_mismatch"
	SkipDuplicate       SkipReason = "duplicate_listing"
	SkipPanic           SkipReason = "processing_panic"
)

// SkipError signals that a listing failed a drop rule. It is not a failure
// of the run; the pipeline counts it and moves on.
type SkipError struct {
	Reason SkipReason
	Detail string
}

func (e *SkipError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("listing skipped: %s", e.Reason)
	}
	return fmt.Sprintf("listing skipped: %s (%s)", e.Reason, e.Detail)
}

// Skip builds a SkipError with an optional detail.
func Skip(reason SkipReason, detail string) *SkipError {
	return &SkipError{Reason: reason, Detail: detail}
}

// RunStats is the run-scoped accumulator threaded through the pipeline and
// returned at the end. No global mutable counters.
type RunStats struct {
	Source     string             `json:"source"`
	Discovered int                `json:"discovered"`
	Extracted  int                `json:"extracted"`
	Written    int                `json:"written"`
	Created    int                `json:"created"`
	Updated    int                `json:"updated"`
	Failed     int                `json:"failed"`
	Skipped    map[SkipReason]int `json:"skipped"`
}

func NewRunStats(source string) *RunStats {
	return &RunStats{Source: source, Skipped: make(map[SkipReason]int)}
}

// SkippedTotal sums drops across all reasons.
func (s *RunStats) SkippedTotal() int {
	total := 0
	for _, n := range s.Skipped {
		total += n
	}
	return total
}

// RunStatus is the persisted lifecycle state the orchestration layer polls.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusFinished RunStatus = "finished"
	RunStatusFailed   RunStatus = "failed"
	RunStatusStopping RunStatus = "stopping"
)
