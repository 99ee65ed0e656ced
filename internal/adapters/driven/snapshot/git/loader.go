// Package git loads the previous dataset snapshot from git history
// and writes the current snapshot for the next commit to pick up.
// The repository itself is the history store; this adapter only
// shells out to read one revision back.
package git

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/gooosetavo/dod-prohibited/internal/core/domain"
	"github.com/gooosetavo/dod-prohibited/internal/core/ports/driven"
	"github.com/gooosetavo/dod-prohibited/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.SnapshotStore = (*Loader)(nil)

// Loader reads and writes dataset snapshots in a git working tree.
type Loader struct {
	repoDir  string
	path     string
	revision string
}

// NewLoader creates a snapshot store rooted at repoDir. path is the
// snapshot file relative to the repository root; revision addresses
// the previous snapshot (normally HEAD, the last committed state).
func NewLoader(repoDir, path, revision string) *Loader {
	if repoDir == "" {
		repoDir = "."
	}
	if path == "" {
		path = "docs/data.json"
	}
	if revision == "" {
		revision = "HEAD"
	}
	return &Loader{repoDir: repoDir, path: path, revision: revision}
}

// LoadPrevious retrieves the snapshot committed at the configured
// revision, keyed by identity key. Every failure mode (no repository,
// no such revision, file absent from it, undecodable content) is a
// normal "no prior snapshot" case and yields (nil, nil).
func (l *Loader) LoadPrevious(ctx context.Context) (map[string]domain.Record, error) {
	cmd := exec.CommandContext(ctx, "git", "show", l.revision+":"+l.path)
	cmd.Dir = l.repoDir

	out, err := cmd.Output()
	if err != nil {
		logger.Warn("Previous snapshot not retrievable from %s:%s: %v", l.revision, l.path, err)
		return nil, nil
	}

	var records []domain.Record
	if err := json.Unmarshal(out, &records); err != nil {
		logger.Warn("Previous snapshot did not parse: %v", err)
		return nil, nil
	}

	keyed := make(map[string]domain.Record, len(records))
	for _, rec := range records {
		key, _ := domain.DeriveKey(rec)
		keyed[key] = rec
	}
	logger.Debug("Loaded previous snapshot: %d records", len(keyed))
	return keyed, nil
}

// SaveCurrent writes the snapshot file in the working tree. The file
// is assembled in memory and moved into place so a failed write never
// leaves a truncated snapshot.
func (l *Loader) SaveCurrent(_ context.Context, records []domain.Record) error {
	if records == nil {
		records = []domain.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	target := filepath.Join(l.repoDir, filepath.FromSlash(l.path))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
