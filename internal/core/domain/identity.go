package domain

import "strings"

// UnnamedPlaceholder labels records with no resolvable display name.
const UnnamedPlaceholder = "(no name)"

// keyRule is one step in the identity fallback chain. Rules are tried
// in order; the first extractor to succeed supplies the key.
type keyRule struct {
	name    string
	extract func(Record) (string, bool)
}

// keyRules is the priority-ordered identity chain. Records have no
// guaranteed natural key, so identity is derived best-effort:
//
//  1. the upstream unique identifier, when present and non-empty
//  2. the primary display name
//  3. the secondary searchable name
//  4. a composite of up to two non-empty meaningful fields
//  5. last resort: a composite of the first non-trivial field values
//
// The order is a first-class artifact: identical input always yields
// the same key within a run and remains stable across runs absent
// actual data changes.
var keyRules = []keyRule{
	{
		name: "guid",
		extract: func(r Record) (string, bool) {
			g := r.Guid()
			return g, g != ""
		},
	},
	{
		name: "display-name",
		extract: func(r Record) (string, bool) {
			n := r.Name()
			return n, n != ""
		},
	},
	{
		name: "searchable-name",
		extract: func(r Record) (string, bool) {
			n := r.SearchableName()
			return n, n != ""
		},
	},
	{
		name: "meaningful-composite",
		extract: func(r Record) (string, bool) {
			parts := collect(2, r.Name(), r.SearchableName(), r.Reason(), r.Guid())
			if len(parts) == 0 {
				return "", false
			}
			return strings.Join(parts, "|"), true
		},
	},
	{
		name: "value-composite",
		extract: func(r Record) (string, bool) {
			var parts []string
			for _, f := range r.Fields() {
				if len(parts) == 3 {
					break
				}
				if f.Name == "added" || f.Name == "updated" {
					continue
				}
				text := strings.TrimSpace(Normalize(f.Value).Text())
				if len(text) > 1 {
					parts = append(parts, text)
				}
			}
			if len(parts) == 0 {
				return "", false
			}
			return strings.Join(parts, "|"), true
		},
	},
}

// collect gathers up to max non-empty candidates in order.
func collect(max int, candidates ...string) []string {
	var out []string
	for _, c := range candidates {
		if strings.TrimSpace(c) == "" {
			continue
		}
		out = append(out, c)
		if len(out) == max {
			break
		}
	}
	return out
}

// DeriveKey computes the best-effort stable identity key and the
// human-readable display name for a record. The two use independent
// fallback chains: the key prefers uniqueness, the name readability.
//
// Known limitation: pathologically sparse records can collapse to the
// same key, in which case the later record wins in any keyed lookup.
func DeriveKey(r Record) (key, name string) {
	for _, rule := range keyRules {
		if k, ok := rule.extract(r); ok {
			key = k
			break
		}
	}
	if key == "" {
		// Nothing usable at all; fall back to the content hash.
		key = r.Slug()
	}

	name = r.Name()
	if name == "" {
		name = r.SearchableName()
	}
	if name == "" {
		name = key
	}
	if name == "" {
		name = UnnamedPlaceholder
	}
	return key, name
}
