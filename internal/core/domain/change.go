package domain

import "time"

// ChangeType classifies the nature of a detected change.
type ChangeType string

const (
	// ChangeAdded means the record appeared since the previous snapshot.
	ChangeAdded ChangeType = "added"

	// ChangeUpdated means at least one normalised field value differs.
	ChangeUpdated ChangeType = "updated"

	// ChangeRemoved means the record disappeared since the previous snapshot.
	ChangeRemoved ChangeType = "removed"
)

// Change is one typed difference between two snapshots for one
// identity key. Changes are ephemeral: they are computed per run and
// live only until merged into the changelog.
type Change struct {
	// Key is the derived identity key.
	Key string

	// Name is the human-readable label used in the changelog.
	Name string

	// Type is the change classification.
	Type ChangeType

	// Fields lists the differing field names. Non-empty only for
	// updates; an update with no differing fields must not exist.
	Fields []string

	// SourceDate is the self-reported date (YYYY-MM-DD) the change
	// occurred upstream. Set for additions only, when resolvable.
	SourceDate string

	// DetectionDate is the date (YYYY-MM-DD) the diffing run executed.
	DetectionDate string
}

// DateBucket holds the changes filed under one calendar date,
// partitioned by type. A bucket with all three lists empty is never
// persisted.
type DateBucket struct {
	Added   []Change
	Updated []Change
	Removed []Change
}

// Add files a change into the matching list.
func (b *DateBucket) Add(c Change) {
	switch c.Type {
	case ChangeAdded:
		b.Added = append(b.Added, c)
	case ChangeUpdated:
		b.Updated = append(b.Updated, c)
	case ChangeRemoved:
		b.Removed = append(b.Removed, c)
	}
}

// HasChanges reports whether any list is non-empty.
func (b *DateBucket) HasChanges() bool {
	return len(b.Added) > 0 || len(b.Updated) > 0 || len(b.Removed) > 0
}

// Total returns the number of changes in the bucket.
func (b *DateBucket) Total() int {
	return len(b.Added) + len(b.Updated) + len(b.Removed)
}

// RunSummary is the aggregate outcome of one tracking run, handed to
// downstream reporting collaborators. It carries counts only, not
// full change detail.
type RunSummary struct {
	RunID        string    `json:"run_id"`
	HasChanges   bool      `json:"has_changes"`
	NewCount     int       `json:"new_count"`
	UpdatedCount int       `json:"updated_count"`
	RemovedCount int       `json:"removed_count"`
	Summary      string    `json:"summary"`
	GeneratedAt  time.Time `json:"generated_at"`
}
