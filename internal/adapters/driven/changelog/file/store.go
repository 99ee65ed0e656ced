// Package file persists the changelog document on disk.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gooosetavo/dod-prohibited/internal/core/ports/driven"
)

var _ driven.ChangelogStore = (*Store)(nil)

// Store reads and rewrites a markdown changelog at a fixed path.
type Store struct {
	path string
}

// NewStore creates a changelog store for the given file path.
func NewStore(path string) *Store {
	if path == "" {
		path = "CHANGELOG.md"
	}
	return &Store{path: path}
}

// Read returns the current document text. A missing file is not an
// error, it simply means no changelog exists yet.
func (s *Store) Read(_ context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading changelog: %w", err)
	}
	return string(data), nil
}

// Write replaces the document in full. The content lands in a temp
// file first and is moved into place, so readers never observe a
// half-written changelog.
func (s *Store) Write(_ context.Context, content string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating changelog directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".changelog-*")
	if err != nil {
		return fmt.Errorf("creating temp changelog: %w", err)
	}
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing changelog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing changelog: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing changelog: %w", err)
	}
	return nil
}
