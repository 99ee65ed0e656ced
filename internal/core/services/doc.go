// Package services implements the core pipeline: change detection
// between snapshots, date assignment, changelog parse/merge, and the
// run orchestration that ties the driven adapters together.
package services
