package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gooosetavo/dod-prohibited/internal/core/domain"
)

func TestSink_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "changes_summary.json")
	sink := NewSink(path)

	summary := domain.RunSummary{
		RunID:        "run-1",
		HasChanges:   true,
		NewCount:     2,
		UpdatedCount: 1,
		Summary:      "2 new, 1 updated",
		GeneratedAt:  time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, sink.Write(context.Background(), summary))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded domain.RunSummary
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, summary, decoded)

	// Field names are the stable contract for workflow consumers.
	assert.Contains(t, string(data), `"has_changes"`)
	assert.Contains(t, string(data), `"new_count"`)
}

func TestSink_WriteReplacesPreviousReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "changes_summary.json")
	sink := NewSink(path)
	ctx := context.Background()

	require.NoError(t, sink.Write(ctx, domain.RunSummary{RunID: "first", HasChanges: true}))
	require.NoError(t, sink.Write(ctx, domain.RunSummary{RunID: "second"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded domain.RunSummary
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "second", decoded.RunID)
	assert.False(t, decoded.HasChanges)
}
