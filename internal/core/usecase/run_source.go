package usecase

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"

	"listing-ingest-service/internal/contextkeys"
	"listing-ingest-service/internal/core/domain"
	"listing-ingest-service/internal/core/port"
)

// testingModeLimit caps how many listings a testing-mode run processes.
const testingModeLimit = 5

// RunSourceUseCase drives one full run of one configured source: discover,
// extract, apply drop rules, write the output file, upload. One listing at a
// time, paced; a bad listing never aborts the run, only discovery or output
// failures do.
type RunSourceUseCase struct {
	source       port.SourceAdapterPort
	writer       port.OutputWriterPort
	uploader     port.UploaderPort
	fingerprints port.FingerprintStorePort
	progress     port.ProgressSinkPort
	runStore     port.RunStorePort
	tracker      port.StatusTrackerPort
	limiter      *rate.Limiter
	testingMode  bool
}

// RunSourceConfig wires the collaborators. Source, Writer and Progress are
// required; Uploader, Fingerprints, RunStore and Tracker are optional and
// nil simply disables the step.
type RunSourceConfig struct {
	Source       port.SourceAdapterPort
	Writer       port.OutputWriterPort
	Uploader     port.UploaderPort
	Fingerprints port.FingerprintStorePort
	Progress     port.ProgressSinkPort
	RunStore     port.RunStorePort
	Tracker      port.StatusTrackerPort

	// PaceEvery spaces listing processing; zero disables pacing.
	PaceEvery   float64
	TestingMode bool
}

func NewRunSourceUseCase(cfg RunSourceConfig) (*RunSourceUseCase, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("run source use case: source adapter cannot be nil")
	}
	if cfg.Writer == nil {
		return nil, fmt.Errorf("run source use case: output writer cannot be nil")
	}
	if cfg.Progress == nil {
		return nil, fmt.Errorf("run source use case: progress sink cannot be nil")
	}

	var limiter *rate.Limiter
	if cfg.PaceEvery > 0 {
		limiter = rate.NewLimiter(rate.Limit(1/cfg.PaceEvery), 1)
	}

	return &RunSourceUseCase{
		source:       cfg.Source,
		writer:       cfg.Writer,
		uploader:     cfg.Uploader,
		fingerprints: cfg.Fingerprints,
		progress:     cfg.Progress,
		runStore:     cfg.RunStore,
		tracker:      cfg.Tracker,
		limiter:      limiter,
		testingMode:  cfg.TestingMode,
	}, nil
}

// Execute runs the source to completion. The returned stats are valid even
// when an error is returned; they describe how far the run got.
func (uc *RunSourceUseCase) Execute(ctx context.Context) (*domain.RunStats, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	stats := domain.NewRunStats(uc.source.Name())

	refs, err := uc.source.Discover(ctx)
	if err != nil {
		uc.progress.Emit(ctx, fmt.Sprintf("❌ Discovery failed for %s: %v", uc.source.Name(), err))
		return stats, fmt.Errorf("discovery failed for %s: %w", uc.source.Name(), err)
	}

	stats.Discovered = len(refs)
	if uc.testingMode && len(refs) > testingModeLimit {
		refs = refs[:testingModeLimit]
		logger.Info("Testing mode, truncating run", port.Fields{"listings": len(refs)})
	}

	total := len(refs)
	for i, ref := range refs {
		if err := ctx.Err(); err != nil {
			uc.progress.Emit(ctx, fmt.Sprintf("⚠️ Run cancelled after %d/%d listings", i, total))
			return stats, err
		}

		if uc.limiter != nil {
			if err := uc.limiter.Wait(ctx); err != nil {
				return stats, err
			}
		}

		if err := uc.processListing(ctx, ref, i+1, total, stats); err != nil {
			uc.publishProgress(ctx, stats)
			return stats, err
		}
		uc.publishProgress(ctx, stats)
	}

	uc.progress.Emit(ctx, fmt.Sprintf(
		"✅ Run finished for %s: %d discovered, %d extracted, %d written, %d created, %d updated, %d failed, %d skipped",
		uc.source.Name(), stats.Discovered, stats.Extracted, stats.Written,
		stats.Created, stats.Updated, stats.Failed, stats.SkippedTotal()))
	uc.publishProgress(ctx, stats)

	return stats, nil
}

// processListing handles one listing end to end. Only an output file write
// failure is returned; everything else is counted and absorbed.
func (uc *RunSourceUseCase) processListing(ctx context.Context, ref domain.ListingRef, position, total int, stats *domain.RunStats) error {
	listing, err := uc.extractSafe(ctx, ref)
	if err != nil {
		var skip *domain.SkipError
		if errors.As(err, &skip) {
			stats.Skipped[skip.Reason]++
			uc.progress.Emit(ctx, fmt.Sprintf("⚠️ [%d/%d] Skipped: %s (%s)", position, total, skip.Reason, skip.Detail))
			return nil
		}
		stats.Failed++
		uc.progress.Emit(ctx, fmt.Sprintf("❌ [%d/%d] Extraction failed: %v", position, total, err))
		return nil
	}
	stats.Extracted++

	if uc.fingerprints != nil {
		seen, err := uc.fingerprints.SeenBefore(ctx, listing)
		if err != nil {
			// dedup is best-effort; a cache outage must not drop listings
			contextkeys.LoggerFromContext(ctx).Warn("Fingerprint check failed", port.Fields{"error": err.Error()})
		} else if seen {
			stats.Skipped[domain.SkipDuplicate]++
			uc.progress.Emit(ctx, fmt.Sprintf("⚠️ [%d/%d] Skipped: %s (%s)", position, total, domain.SkipDuplicate, listing.ListingID))
			return nil
		}
	}

	if err := uc.writer.Append(listing); err != nil {
		uc.progress.Emit(ctx, fmt.Sprintf("❌ [%d/%d] Output write failed for %s: %v", position, total, listing.ListingID, err))
		return fmt.Errorf("failed to write listing %s: %w", listing.ListingID, err)
	}
	stats.Written++

	if uc.uploader == nil {
		uc.markDelivered(ctx, listing)
		uc.progress.Emit(ctx, fmt.Sprintf("✅ [%d/%d] Saved %s", position, total, listing.ListingID))
		return nil
	}

	result, err := uc.uploader.Send(ctx, listing)
	if err != nil || result == nil || result.Outcome == domain.OutcomeFailed {
		stats.Failed++
		detail := "unknown error"
		switch {
		case err != nil:
			detail = err.Error()
		case result != nil:
			detail = result.Error
		}
		uc.progress.Emit(ctx, fmt.Sprintf("❌ [%d/%d] Upload failed for %s: %s", position, total, listing.ListingID, detail))
		return nil
	}

	switch result.Outcome {
	case domain.OutcomeUpdated:
		stats.Updated++
	default:
		stats.Created++
	}
	uc.markDelivered(ctx, listing)
	uc.progress.Emit(ctx, fmt.Sprintf("✅ [%d/%d] Uploaded %s (%s)", position, total, listing.ListingID, result.Outcome))
	return nil
}

// markDelivered records the fingerprint only once the listing reached its
// destination; a failed upload stays unmarked and is retried next run.
func (uc *RunSourceUseCase) markDelivered(ctx context.Context, listing *domain.Listing) {
	if uc.fingerprints == nil {
		return
	}
	if err := uc.fingerprints.MarkSeen(ctx, listing); err != nil {
		contextkeys.LoggerFromContext(ctx).Warn("Fingerprint store failed", port.Fields{"error": err.Error()})
	}
}

// extractSafe contains a panic from one listing's extraction so the run
// keeps going; the listing counts as a processing_panic skip.
func (uc *RunSourceUseCase) extractSafe(ctx context.Context, ref domain.ListingRef) (listing *domain.Listing, err error) {
	defer func() {
		if r := recover(); r != nil {
			listing = nil
			err = domain.Skip(domain.SkipPanic, fmt.Sprint(r))
		}
	}()
	return uc.source.Extract(ctx, ref)
}

func (uc *RunSourceUseCase) publishProgress(ctx context.Context, stats *domain.RunStats) {
	if uc.tracker != nil {
		uc.tracker.Record(*stats)
	}
	if uc.runStore != nil {
		runID := contextkeys.RunIDFromContext(ctx)
		if err := uc.runStore.UpdateProgress(ctx, runID, stats); err != nil {
			contextkeys.LoggerFromContext(ctx).Warn("Failed to persist run progress", port.Fields{"error": err.Error()})
		}
	}
}
