// Package file writes run summaries as JSON for downstream automation.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gooosetavo/dod-prohibited/internal/core/domain"
	"github.com/gooosetavo/dod-prohibited/internal/core/ports/driven"
)

var _ driven.ReportSink = (*Sink)(nil)

// Sink writes the run summary to a JSON file, typically consumed by a
// CI workflow deciding whether to commit and publish.
type Sink struct {
	path string
}

// NewSink creates a report sink writing to the given path.
func NewSink(path string) *Sink {
	if path == "" {
		path = "changes_summary.json"
	}
	return &Sink{path: path}
}

// Write serialises the summary to disk, replacing any previous report.
func (s *Sink) Write(_ context.Context, summary domain.RunSummary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}
