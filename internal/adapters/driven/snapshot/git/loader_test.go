package git

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gooosetavo/dod-prohibited/internal/core/domain"
)

// initTestRepo creates a git repository with one committed snapshot.
func initTestRepo(t *testing.T, snapshot string) string {
	t.Helper()
	dir := t.TempDir()

	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com")
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
	}

	run("init")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs", "data.json"), []byte(snapshot), 0o644))
	run("add", ".")
	run("commit", "-m", "snapshot")

	return dir
}

func TestLoadPrevious(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := initTestRepo(t, `[{"Name": "Ephedra"}, {"Name": "DMAA"}]`)
	loader := NewLoader(dir, "docs/data.json", "HEAD")

	previous, err := loader.LoadPrevious(context.Background())
	require.NoError(t, err)
	require.Len(t, previous, 2)

	rec, ok := previous["Ephedra"]
	require.True(t, ok)
	assert.Equal(t, "Ephedra", rec.Name())
}

func TestLoadPrevious_NoRepository(t *testing.T) {
	loader := NewLoader(t.TempDir(), "docs/data.json", "HEAD")

	previous, err := loader.LoadPrevious(context.Background())
	assert.NoError(t, err, "absence of history is not an error")
	assert.Nil(t, previous)
}

func TestLoadPrevious_FileNotInRevision(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := initTestRepo(t, `[]`)
	loader := NewLoader(dir, "docs/other.json", "HEAD")

	previous, err := loader.LoadPrevious(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, previous)
}

func TestLoadPrevious_UnparseableSnapshot(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := initTestRepo(t, `{not json`)
	loader := NewLoader(dir, "docs/data.json", "HEAD")

	previous, err := loader.LoadPrevious(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, previous)
}

func TestSaveCurrent(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(dir, "docs/data.json", "HEAD")

	var rec domain.Record
	require.NoError(t, json.Unmarshal([]byte(`{"Name": "Ephedra"}`), &rec))

	require.NoError(t, loader.SaveCurrent(context.Background(), []domain.Record{rec}))

	data, err := os.ReadFile(filepath.Join(dir, "docs", "data.json"))
	require.NoError(t, err)

	var records []domain.Record
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "Ephedra", records[0].Name())
}

func TestSaveCurrent_NilWritesEmptyArray(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(dir, "data.json", "HEAD")

	require.NoError(t, loader.SaveCurrent(context.Background(), nil))

	data, err := os.ReadFile(filepath.Join(dir, "data.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}
