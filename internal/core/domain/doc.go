// Package domain contains the core types of the prohibited
// substances tracker: records as ordered field maps with a tagged
// value union, the identity derivation chain, value normalisation,
// and the change model persisted into the changelog.
package domain
