package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ReadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "CHANGELOG.md"))

	text, err := store.Read(context.Background())
	require.NoError(t, err, "a missing changelog is an empty one")
	assert.Equal(t, "", text)
}

func TestStore_WriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CHANGELOG.md")
	store := NewStore(path)
	ctx := context.Background()

	content := "# Changelog\n\n## 2024-02-01\n"
	require.NoError(t, store.Write(ctx, content))

	text, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, content, text)
}

func TestStore_WriteReplacesInFull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CHANGELOG.md")
	store := NewStore(path)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "old content that is quite long\n"))
	require.NoError(t, store.Write(ctx, "new\n"))

	text, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new\n", text)
}

func TestStore_WriteCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs", "nested", "CHANGELOG.md")
	store := NewStore(path)

	require.NoError(t, store.Write(context.Background(), "content\n"))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestStore_WriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "CHANGELOG.md"))

	require.NoError(t, store.Write(context.Background(), "content\n"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
