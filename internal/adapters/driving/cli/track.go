package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Fetch the list, update the snapshot and merge the changelog",
	Long: `Fetches the current prohibited ingredients list, refreshes the local
cache, exports the dataset snapshot, diffs it against the previously
committed snapshot and merges any detected changes into the changelog.`,
	RunE: runTrack,
}

func init() {
	rootCmd.AddCommand(trackCmd)
}

func runTrack(cmd *cobra.Command, _ []string) error {
	tracker, cleanup, err := buildTracker()
	if err != nil {
		return err
	}
	defer cleanup()

	summary, err := tracker.Run(context.Background())
	if err != nil {
		return fmt.Errorf("tracking run failed: %w", err)
	}

	if summary.HasChanges {
		cmd.Printf("Changes detected: %s\n", summary.Summary)
	} else {
		cmd.Println("No changes detected.")
	}
	return nil
}
