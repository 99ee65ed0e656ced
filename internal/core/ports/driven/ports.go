package driven

import (
	"context"

	"github.com/gooosetavo/dod-prohibited/internal/core/domain"
)

// SourceFetcher retrieves the current dataset from the upstream
// publication.
type SourceFetcher interface {
	// Fetch returns the records currently published, in source order.
	Fetch(ctx context.Context) ([]domain.Record, error)
}

// SnapshotStore persists full dataset snapshots and retrieves the
// previously committed one from the history store.
type SnapshotStore interface {
	// LoadPrevious returns the last committed snapshot keyed by
	// identity key. It returns (nil, nil) when no prior snapshot
	// exists, retrieval fails, or the content does not parse.
	// Absence is a normal, handled case, not an error.
	LoadPrevious(ctx context.Context) (map[string]domain.Record, error)

	// SaveCurrent writes the current snapshot for the history store
	// to pick up on the next commit.
	SaveCurrent(ctx context.Context, records []domain.Record) error
}

// RecordStore caches records between runs, maintaining first-seen and
// last-seen timestamps.
type RecordStore interface {
	// Upsert stores the records, preserving an existing record's
	// first-seen timestamp and refreshing its last-seen timestamp.
	Upsert(ctx context.Context, records []domain.Record) error

	// Export returns all cached records with their first-seen
	// timestamp attached as the "added" field.
	Export(ctx context.Context) ([]domain.Record, error)

	// Close releases the underlying storage.
	Close() error
}

// ChangelogStore reads and rewrites the persisted changelog document.
type ChangelogStore interface {
	// Read returns the current document text, or "" when the
	// document does not exist yet.
	Read(ctx context.Context) (string, error)

	// Write replaces the document content in full. Implementations
	// must never leave a partially written file behind.
	Write(ctx context.Context, content string) error
}

// ReportSink receives the aggregate run summary for downstream
// consumers.
type ReportSink interface {
	Write(ctx context.Context, summary domain.RunSummary) error
}
