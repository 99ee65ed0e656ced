// Package cli implements the command-line driving adapter. Commands
// wire the driven adapters into the tracker service and expose the
// fetch-diff-merge pipeline as subcommands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	changelogfile "github.com/gooosetavo/dod-prohibited/internal/adapters/driven/changelog/file"
	configfile "github.com/gooosetavo/dod-prohibited/internal/adapters/driven/config/file"
	reportfile "github.com/gooosetavo/dod-prohibited/internal/adapters/driven/report/file"
	"github.com/gooosetavo/dod-prohibited/internal/adapters/driven/snapshot/git"
	"github.com/gooosetavo/dod-prohibited/internal/adapters/driven/source/opss"
	"github.com/gooosetavo/dod-prohibited/internal/adapters/driven/storage/sqlite"
	"github.com/gooosetavo/dod-prohibited/internal/core/services"
	"github.com/gooosetavo/dod-prohibited/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "dod-prohibited",
	Short: "Track the DoD prohibited dietary supplement ingredients list",
	Long: `dod-prohibited fetches the Department of Defense prohibited dietary
supplement ingredients list, caches it locally, diffs it against the
previously committed snapshot and maintains a dated changelog of
additions, modifications and removals.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to TOML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// buildTracker assembles the tracker service from configuration. The
// returned cleanup closes the record cache and must always be called.
func buildTracker() (*services.Tracker, func(), error) {
	cfg, err := configfile.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	fetcher := opss.New(opss.Config{
		URL:               cfg.Source.URL,
		UserAgent:         cfg.Source.UserAgent,
		Timeout:           cfg.Source.Timeout(),
		RequestsPerSecond: cfg.Source.RequestsPerSecond,
	})

	store, err := sqlite.NewStore(cfg.Storage.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening record cache: %w", err)
	}

	snapshots := git.NewLoader(cfg.Snapshot.RepoDir, cfg.Snapshot.Path, cfg.Snapshot.Revision)
	changelog := changelogfile.NewStore(cfg.Changelog.Path)
	report := reportfile.NewSink(cfg.Report.Path)
	detector := services.NewChangeDetector(cfg.Detector.IgnoreFields)

	tracker := services.NewTracker(fetcher, store, snapshots, changelog, report, detector)
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("Closing record cache: %v", err)
		}
	}
	return tracker, cleanup, nil
}
