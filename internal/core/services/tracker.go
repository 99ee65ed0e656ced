package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gooosetavo/dod-prohibited/internal/core/domain"
	"github.com/gooosetavo/dod-prohibited/internal/core/ports/driven"
	"github.com/gooosetavo/dod-prohibited/internal/core/ports/driving"
	"github.com/gooosetavo/dod-prohibited/internal/logger"
)

// Ensure Tracker implements the interface.
var _ driving.Tracker = (*Tracker)(nil)

// Tracker coordinates one full tracking run: fetch the current
// dataset, refresh the cache, export the snapshot, diff against the
// previous snapshot, and merge new changes into the changelog.
type Tracker struct {
	fetcher   driven.SourceFetcher
	records   driven.RecordStore
	snapshots driven.SnapshotStore
	changelog driven.ChangelogStore
	report    driven.ReportSink
	detector  *ChangeDetector

	// now is injectable for tests.
	now func() time.Time
}

// NewTracker creates a tracker wired to the given collaborators.
// The report sink is optional; nil disables summary reporting.
func NewTracker(
	fetcher driven.SourceFetcher,
	records driven.RecordStore,
	snapshots driven.SnapshotStore,
	changelog driven.ChangelogStore,
	report driven.ReportSink,
	detector *ChangeDetector,
) *Tracker {
	return &Tracker{
		fetcher:   fetcher,
		records:   records,
		snapshots: snapshots,
		changelog: changelog,
		report:    report,
		detector:  detector,
		now:       time.Now,
	}
}

// Run executes the pipeline. Retrieval of the previous snapshot may
// degrade to "no diff possible" without failing the run; errors
// against the changelog document itself or the upstream fetch are
// fatal. The changelog file is only rewritten after the merge has
// been computed in full, so a failed run leaves it untouched.
func (t *Tracker) Run(ctx context.Context) (*domain.RunSummary, error) {
	logger.Section("Fetch")
	fetched, err := t.fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}
	logger.Info("Fetched %d records", len(fetched))

	if err := t.records.Upsert(ctx, fetched); err != nil {
		return nil, fmt.Errorf("cache records: %w", err)
	}
	current, err := t.records.Export(ctx)
	if err != nil {
		return nil, fmt.Errorf("export records: %w", err)
	}

	logger.Section("Diff")
	previous, err := t.snapshots.LoadPrevious(ctx)
	if err != nil {
		// Contract says absence is (nil, nil); a real error still
		// only degrades the run to "no diff possible".
		logger.Warn("Previous snapshot unavailable: %v", err)
		previous = nil
	}

	if err := t.snapshots.SaveCurrent(ctx, current); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	changes := t.detector.Detect(current, previous)
	detectionDate := t.now().UTC().Format("2006-01-02")
	buckets := AssignDates(changes, detectionDate)

	logger.Section("Changelog")
	text, err := t.changelog.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read changelog: %w", err)
	}
	result := MergeChangelog(buckets, ParseChangelog(text), text)
	if result.Changed {
		if err := t.changelog.Write(ctx, result.Document); err != nil {
			return nil, fmt.Errorf("write changelog: %w", err)
		}
		logger.Info("Updated changelog with %d new changes", len(result.Applied))
	}

	summary := buildSummary(result.Applied, t.now().UTC())
	if t.report != nil {
		if err := t.report.Write(ctx, *summary); err != nil {
			logger.Warn("Could not write run summary: %v", err)
		}
	}
	return summary, nil
}

// buildSummary aggregates applied changes into the per-run report.
func buildSummary(applied []domain.Change, at time.Time) *domain.RunSummary {
	summary := &domain.RunSummary{
		RunID:       uuid.New().String(),
		GeneratedAt: at,
	}
	for _, c := range applied {
		switch c.Type {
		case domain.ChangeAdded:
			summary.NewCount++
		case domain.ChangeUpdated:
			summary.UpdatedCount++
		case domain.ChangeRemoved:
			summary.RemovedCount++
		}
	}
	summary.HasChanges = summary.NewCount+summary.UpdatedCount+summary.RemovedCount > 0

	var parts []string
	if summary.NewCount > 0 {
		parts = append(parts, fmt.Sprintf("%d new", summary.NewCount))
	}
	if summary.UpdatedCount > 0 {
		parts = append(parts, fmt.Sprintf("%d updated", summary.UpdatedCount))
	}
	if summary.RemovedCount > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", summary.RemovedCount))
	}
	if len(parts) == 0 {
		summary.Summary = "no changes"
	} else {
		summary.Summary = strings.Join(parts, ", ")
	}
	return summary
}
