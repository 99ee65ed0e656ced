package services

import (
	"sort"

	"github.com/gooosetavo/dod-prohibited/internal/core/domain"
	"github.com/gooosetavo/dod-prohibited/internal/logger"
)

// DefaultIgnoreFields are the system-managed and volatile fields
// excluded from field comparison. "added" and "updated" are cache
// bookkeeping; the rest churn upstream without meaning.
var DefaultIgnoreFields = []string{"added", "updated", "guid", "More_info_URL", "SourceOf"}

// ChangeDetector compares the current dataset against the previous
// snapshot by identity key and produces typed change events.
type ChangeDetector struct {
	ignore map[string]struct{}
}

// NewChangeDetector creates a detector that skips the given fields
// during comparison. Pass DefaultIgnoreFields unless the caller has
// specific needs.
func NewChangeDetector(ignoreFields []string) *ChangeDetector {
	ignore := make(map[string]struct{}, len(ignoreFields))
	for _, f := range ignoreFields {
		ignore[f] = struct{}{}
	}
	return &ChangeDetector{ignore: ignore}
}

// Detect diffs current records against the previous snapshot.
//
// A nil previous snapshot means no diff is possible (first run, or
// transient retrieval failure) and yields zero changes, never a mass
// of false "added" events.
//
// For records present in both snapshots, field comparison only runs
// when both modification timestamps resolve and the current one is
// strictly newer. An unresolvable timestamp is treated as
// "not modified": noise from snapshots whose timestamp encoding fails
// to parse must not surface as updates.
func (d *ChangeDetector) Detect(current []domain.Record, previous map[string]domain.Record) []domain.Change {
	if previous == nil {
		logger.Warn("No previous snapshot available; skipping change detection")
		return nil
	}

	var changes []domain.Change
	currentKeys := make(map[string]struct{}, len(current))

	for _, rec := range current {
		key, name := domain.DeriveKey(rec)
		if _, dup := currentKeys[key]; dup {
			logger.Debug("Duplicate identity key %q; later record wins", key)
		}
		currentKeys[key] = struct{}{}

		prev, seen := previous[key]
		if !seen {
			change := domain.Change{Key: key, Name: name, Type: domain.ChangeAdded}
			if date, ok := rec.SourceDate(); ok {
				change.SourceDate = date
			}
			changes = append(changes, change)
			continue
		}

		curTS, curOK := rec.LastModified()
		prevTS, prevOK := prev.LastModified()
		if !curOK || !prevOK || curTS <= prevTS {
			continue
		}

		if fields := d.diffFields(rec, prev); len(fields) > 0 {
			changes = append(changes, domain.Change{
				Key:    key,
				Name:   name,
				Type:   domain.ChangeUpdated,
				Fields: fields,
			})
		}
	}

	// Removed keys surface in sorted order; ordering carries no
	// meaning, but deterministic output keeps runs reproducible.
	removed := make([]string, 0)
	for key := range previous {
		if _, still := currentKeys[key]; !still {
			removed = append(removed, key)
		}
	}
	sort.Strings(removed)
	for _, key := range removed {
		_, name := domain.DeriveKey(previous[key])
		changes = append(changes, domain.Change{Key: key, Name: name, Type: domain.ChangeRemoved})
	}

	return changes
}

// diffFields returns the sorted names of non-ignored fields whose
// normalised values differ between the two records.
func (d *ChangeDetector) diffFields(current, previous domain.Record) []string {
	names := make(map[string]struct{}, current.Len())
	for _, f := range current.Fields() {
		names[f.Name] = struct{}{}
	}
	for _, f := range previous.Fields() {
		names[f.Name] = struct{}{}
	}

	var diff []string
	for name := range names {
		if _, skip := d.ignore[name]; skip {
			continue
		}
		curVal, _ := current.Get(name)
		prevVal, _ := previous.Get(name)
		if !domain.Normalize(curVal).Equal(domain.Normalize(prevVal)) {
			diff = append(diff, name)
		}
	}
	sort.Strings(diff)
	return diff
}
