package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gooosetavo/dod-prohibited/internal/core/domain"
	"github.com/gooosetavo/dod-prohibited/internal/logger"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the pipeline and signal via exit code whether changes were found",
	Long: `Runs the full tracking pipeline and reports the outcome in a form
automation can act on: the run summary is written to the report file,
key results are appended to $GITHUB_OUTPUT when set, and the exit code
is 0 when changes were detected and 1 when the list is unchanged.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	tracker, cleanup, err := buildTracker()
	if err != nil {
		return err
	}
	defer cleanup()

	summary, err := tracker.Run(context.Background())
	if err != nil {
		return fmt.Errorf("tracking run failed: %w", err)
	}

	cmd.Printf("New: %d, updated: %d, removed: %d\n",
		summary.NewCount, summary.UpdatedCount, summary.RemovedCount)

	if err := writeGitHubOutput(summary); err != nil {
		logger.Warn("Writing GitHub output: %v", err)
	}

	if !summary.HasChanges {
		return domain.ErrNoChanges
	}
	return nil
}

// writeGitHubOutput appends workflow outputs when running under GitHub
// Actions. Outside of Actions ($GITHUB_OUTPUT unset) it is a no-op.
func writeGitHubOutput(summary *domain.RunSummary) error {
	path := os.Getenv("GITHUB_OUTPUT")
	if path == "" {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "has-changes=%t\nchanges-summary=%s\n",
		summary.HasChanges, summary.Summary)
	return err
}
