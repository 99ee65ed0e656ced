// Package driven defines the outbound interfaces the core services
// depend on: the upstream fetcher, the snapshot history store, the
// record cache, the changelog document store and the report sink.
// Adapters under internal/adapters/driven implement them.
package driven
