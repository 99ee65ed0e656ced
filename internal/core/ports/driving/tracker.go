// Package driving defines the inbound interfaces through which the
// CLI drives the core services.
package driving

import (
	"context"

	"github.com/gooosetavo/dod-prohibited/internal/core/domain"
)

// Tracker runs the full change-tracking pipeline: fetch, cache,
// snapshot, diff, date assignment and changelog merge.
type Tracker interface {
	// Run executes one complete tracking run and returns its
	// aggregate summary. The changelog on disk is untouched unless
	// the run produced changes not yet recorded in it.
	Run(ctx context.Context) (*domain.RunSummary, error)
}
