// Package file loads tracker configuration from a TOML file.
package file

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/gooosetavo/dod-prohibited/internal/core/services"
)

// Config holds all tunables for a tracker run.
type Config struct {
	Source    SourceConfig    `toml:"source"`
	Storage   StorageConfig   `toml:"storage"`
	Snapshot  SnapshotConfig  `toml:"snapshot"`
	Changelog ChangelogConfig `toml:"changelog"`
	Detector  DetectorConfig  `toml:"detector"`
	Report    ReportConfig    `toml:"report"`
}

// SourceConfig controls the upstream fetch.
type SourceConfig struct {
	URL               string  `toml:"url"`
	UserAgent         string  `toml:"user_agent"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Timeout returns the configured HTTP timeout as a duration.
func (c SourceConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// StorageConfig locates the local record cache.
type StorageConfig struct {
	DataDir string `toml:"data_dir"`
}

// SnapshotConfig locates the snapshot file within its git repository.
type SnapshotConfig struct {
	RepoDir  string `toml:"repo_dir"`
	Path     string `toml:"path"`
	Revision string `toml:"revision"`
}

// ChangelogConfig locates the changelog document.
type ChangelogConfig struct {
	Path string `toml:"path"`
}

// DetectorConfig tunes change detection.
type DetectorConfig struct {
	IgnoreFields []string `toml:"ignore_fields"`
}

// ReportConfig locates the machine-readable run summary.
type ReportConfig struct {
	Path string `toml:"path"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Source: SourceConfig{
			TimeoutSeconds:    30,
			RequestsPerSecond: 1,
		},
		Snapshot: SnapshotConfig{
			RepoDir:  ".",
			Path:     "docs/data.json",
			Revision: "HEAD",
		},
		Changelog: ChangelogConfig{
			Path: "CHANGELOG.md",
		},
		Detector: DetectorConfig{
			IgnoreFields: services.DefaultIgnoreFields,
		},
		Report: ReportConfig{
			Path: "changes_summary.json",
		},
	}
}

// Load reads the TOML file at path, layering it over the defaults.
// An empty path returns the defaults untouched; a missing file at an
// explicit path is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
