package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"listing-ingest-service/internal/core/domain"
)

// RunStoreAdapter persists run history and progress in PostgreSQL and
// implements port.RunStorePort.
type RunStoreAdapter struct {
	pool *pgxpool.Pool
}

func NewRunStoreAdapter(pool *pgxpool.Pool) (*RunStoreAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &RunStoreAdapter{pool: pool}, nil
}

// Migrate creates the run tables when they do not exist yet. The service
// owns these tables alone, so idempotent DDL at startup is enough.
func (a *RunStoreAdapter) Migrate(ctx context.Context) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS scraper_runs (
		id            UUID PRIMARY KEY,
		source        TEXT NOT NULL,
		status        TEXT NOT NULL,
		started_at    TIMESTAMPTZ NOT NULL,
		finished_at   TIMESTAMPTZ,
		discovered    INT NOT NULL DEFAULT 0,
		extracted     INT NOT NULL DEFAULT 0,
		written       INT NOT NULL DEFAULT 0,
		created_count INT NOT NULL DEFAULT 0,
		updated_count INT NOT NULL DEFAULT 0,
		failed_count  INT NOT NULL DEFAULT 0,
		skipped       JSONB NOT NULL DEFAULT '{}'::jsonb
	);
	CREATE TABLE IF NOT EXISTS scraper_run_logs (
		id        BIGSERIAL PRIMARY KEY,
		run_id    UUID NOT NULL REFERENCES scraper_runs(id) ON DELETE CASCADE,
		level     TEXT NOT NULL,
		line      TEXT NOT NULL,
		logged_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_scraper_run_logs_run_id ON scraper_run_logs(run_id);`

	if _, err := a.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to migrate run tables: %w", err)
	}
	return nil
}

func (a *RunStoreAdapter) CreateRun(ctx context.Context, runID uuid.UUID, source string) error {
	const sql = `
		INSERT INTO scraper_runs (id, source, status, started_at)
		VALUES ($1, $2, $3, $4)`

	if _, err := a.pool.Exec(ctx, sql, runID, source, domain.RunStatusRunning, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to create run %s: %w", runID, err)
	}
	return nil
}

// AppendLog stores one progress line. The level is classified from the
// line's emoji prefix, matching the ✅/❌/⚠️ convention the runs emit.
func (a *RunStoreAdapter) AppendLog(ctx context.Context, runID uuid.UUID, line string) error {
	const sql = `
		INSERT INTO scraper_run_logs (run_id, level, line, logged_at)
		VALUES ($1, $2, $3, $4)`

	if _, err := a.pool.Exec(ctx, sql, runID, classifyLine(line), line, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to append log for run %s: %w", runID, err)
	}
	return nil
}

func (a *RunStoreAdapter) UpdateProgress(ctx context.Context, runID uuid.UUID, stats *domain.RunStats) error {
	skipped, err := json.Marshal(stats.Skipped)
	if err != nil {
		return fmt.Errorf("failed to marshal skip counters: %w", err)
	}

	const sql = `
		UPDATE scraper_runs SET
			discovered = $2, extracted = $3, written = $4,
			created_count = $5, updated_count = $6, failed_count = $7,
			skipped = $8
		WHERE id = $1`

	if _, err := a.pool.Exec(ctx, sql, runID,
		stats.Discovered, stats.Extracted, stats.Written,
		stats.Created, stats.Updated, stats.Failed, skipped); err != nil {
		return fmt.Errorf("failed to update progress for run %s: %w", runID, err)
	}
	return nil
}

func (a *RunStoreAdapter) FinishRun(ctx context.Context, runID uuid.UUID, status domain.RunStatus, stats *domain.RunStats) error {
	if err := a.UpdateProgress(ctx, runID, stats); err != nil {
		return err
	}

	const sql = `UPDATE scraper_runs SET status = $2, finished_at = $3 WHERE id = $1`
	if _, err := a.pool.Exec(ctx, sql, runID, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to finish run %s: %w", runID, err)
	}
	return nil
}

func (a *RunStoreAdapter) ShouldStop(ctx context.Context, runID uuid.UUID) (bool, error) {
	const sql = `SELECT status FROM scraper_runs WHERE id = $1`

	var status string
	if err := a.pool.QueryRow(ctx, sql, runID).Scan(&status); err != nil {
		return false, fmt.Errorf("failed to read run status for %s: %w", runID, err)
	}
	return domain.RunStatus(status) == domain.RunStatusStopping, nil
}

func classifyLine(line string) string {
	switch {
	case strings.HasPrefix(line, "❌"):
		return "error"
	case strings.HasPrefix(line, "⚠️"):
		return "warn"
	default:
		return "info"
	}
}
