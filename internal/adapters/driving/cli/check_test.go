package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gooosetavo/dod-prohibited/internal/core/domain"
)

func TestCheckCmd_Registered(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Use)
	}
	assert.Contains(t, names, "check")
	assert.Contains(t, names, "track")
}

func TestWriteGitHubOutput_NoEnvIsNoOp(t *testing.T) {
	t.Setenv("GITHUB_OUTPUT", "")
	err := writeGitHubOutput(&domain.RunSummary{HasChanges: true})
	assert.NoError(t, err)
}

func TestWriteGitHubOutput_AppendsOutputs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	t.Setenv("GITHUB_OUTPUT", path)

	summary := &domain.RunSummary{HasChanges: true, Summary: "2 new"}
	require.NoError(t, writeGitHubOutput(summary))

	// A second run appends rather than truncates, matching how the
	// Actions runner treats the file.
	summary = &domain.RunSummary{HasChanges: false, Summary: "no changes"}
	require.NoError(t, writeGitHubOutput(summary))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "has-changes=true\nchanges-summary=2 new\n")
	assert.Contains(t, string(data), "has-changes=false\nchanges-summary=no changes\n")
}
