package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_GuidWins(t *testing.T) {
	r := recordFromJSON(t, `{"guid": "abc-123", "Name": "Ephedra"}`)
	key, name := DeriveKey(r)
	assert.Equal(t, "abc-123", key)
	assert.Equal(t, "Ephedra", name)
}

func TestDeriveKey_NameFallback(t *testing.T) {
	r := recordFromJSON(t, `{"Name": "Ephedra", "Reason": "banned"}`)
	key, name := DeriveKey(r)
	assert.Equal(t, "Ephedra", key)
	assert.Equal(t, "Ephedra", name)
}

func TestDeriveKey_SearchableNameFallback(t *testing.T) {
	r := recordFromJSON(t, `{"Searchable_name": "ephedra sinica"}`)
	key, name := DeriveKey(r)
	assert.Equal(t, "ephedra sinica", key)
	assert.Equal(t, "ephedra sinica", name)
}

func TestDeriveKey_ValueComposite(t *testing.T) {
	// No guid, no name of any kind; identity falls back to the first
	// non-trivial field values, skipping cache bookkeeping.
	r := recordFromJSON(t, `{"added": "2024-01-01", "notes": "withdrawn", "batch": "B42"}`)
	key, name := DeriveKey(r)
	assert.Equal(t, "withdrawn|B42", key)
	assert.Equal(t, key, name)
}

func TestDeriveKey_EmptyRecordUsesHash(t *testing.T) {
	var r Record
	require.NoError(t, json.Unmarshal([]byte(`{}`), &r))
	key, name := DeriveKey(r)
	assert.Contains(t, key, "substance-")
	assert.Equal(t, key, name)
}

func TestDeriveKey_StableAcrossCalls(t *testing.T) {
	r := recordFromJSON(t, `{"Name": "DMAA", "Reason": "stimulant"}`)
	k1, _ := DeriveKey(r)
	k2, _ := DeriveKey(r)
	assert.Equal(t, k1, k2)
}
