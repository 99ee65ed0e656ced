package domain

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"regexp"
	"strings"
	"time"
)

// Record is one dataset entry (one substance) as an ordered map of
// field name to Value. The upstream dataset enforces no schema beyond
// "each record is a flat map", so records carry whatever fields the
// source happened to publish. Field order is preserved from the
// source document so snapshots serialise stably.
type Record struct {
	fields []RecordField
	index  map[string]int
}

// RecordField is one named field within a Record.
type RecordField struct {
	Name  string
	Value Value
}

// NewRecord creates an empty record.
func NewRecord() Record {
	return Record{index: make(map[string]int)}
}

// Set stores a field value, preserving the position of an existing
// field with the same name.
func (r *Record) Set(name string, v Value) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[name]; ok {
		r.fields[i].Value = v
		return
	}
	r.index[name] = len(r.fields)
	r.fields = append(r.fields, RecordField{Name: name, Value: v})
}

// Get returns a field value by exact name.
func (r Record) Get(name string) (Value, bool) {
	i, ok := r.index[name]
	if !ok {
		return Null(), false
	}
	return r.fields[i].Value, true
}

// Has reports whether a field is present.
func (r Record) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Fields returns the fields in source order.
func (r Record) Fields() []RecordField {
	return r.fields
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.fields)
}

// stringField returns the first non-empty string value among the
// given field names. The upstream source is inconsistent about field
// casing across snapshots, so accessors list both variants explicitly.
func (r Record) stringField(names ...string) string {
	for _, name := range names {
		v, ok := r.Get(name)
		if !ok {
			continue
		}
		if s, isStr := v.Str(); isStr && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// Name returns the primary display name, or "" when no name field is
// present. DisplayName applies the full fallback chain including the
// fixed placeholder.
func (r Record) Name() string {
	return r.stringField("Name", "ingredient", "name", "substance", "title")
}

// Guid returns the upstream unique identifier, if any.
func (r Record) Guid() string {
	return r.stringField("Guid", "guid")
}

// SearchableName returns the secondary searchable name, if any.
func (r Record) SearchableName() string {
	return r.stringField("Searchable_name", "searchable_name")
}

// Reason returns the primary reason for prohibition, if any.
func (r Record) Reason() string {
	return r.stringField("Reason", "reason")
}

// AddedDate returns the first-seen timestamp recorded by the cache.
func (r Record) AddedDate() string {
	return r.stringField("added")
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives a URL-friendly identifier from the display name,
// falling back to a content hash when no name is available.
func (r Record) Slug() string {
	slug := slugify(r.Name())
	if slug != "" {
		return slug
	}
	data, err := json.Marshal(r)
	if err != nil {
		data = nil
	}
	sum := sha1.Sum(data)
	return "substance-" + hex.EncodeToString(sum[:])[:10]
}

// slugify lowercases, strips non-alphanumerics and collapses runs
// into single hyphens.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlug.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// LastModified extracts the record's self-reported modification time
// as a Unix timestamp. The source encodes it as a JSON object string
// in the "updated" field: {"_seconds": N}. Any decode failure yields
// ok=false; callers must treat an unresolvable timestamp as
// "not modified", never as "modified".
func (r Record) LastModified() (int64, bool) {
	v, ok := r.Get("updated")
	if !ok {
		return 0, false
	}
	if s, isStr := v.Str(); isStr {
		if strings.TrimSpace(s) == "" {
			return 0, false
		}
		parsed, err := ParseValue([]byte(s))
		if err != nil {
			return 0, false
		}
		v = parsed
	}
	seconds, ok := v.Field("_seconds")
	if !ok {
		return 0, false
	}
	f, isNum := seconds.Num()
	if !isNum {
		return 0, false
	}
	return int64(f), true
}

// dateFields are scanned, in order, when the modification timestamp
// is not resolvable but the record still self-reports a date.
var dateFields = []string{"date_added", "created", "modified_date", "last_updated"}

// SourceDate extracts the self-reported date (YYYY-MM-DD) on which
// the record last changed upstream. Preference order: the decoded
// modification timestamp, then the first plausible date-like field.
func (r Record) SourceDate() (string, bool) {
	if ts, ok := r.LastModified(); ok && ts > 0 {
		return time.Unix(ts, 0).UTC().Format("2006-01-02"), true
	}
	for _, name := range dateFields {
		v, ok := r.Get(name)
		if !ok {
			continue
		}
		s, isStr := v.Str()
		if !isStr {
			continue
		}
		s = strings.TrimSpace(s)
		if len(s) >= 10 {
			if _, err := time.Parse("2006-01-02", s[:10]); err == nil {
				return s[:10], true
			}
		}
	}
	return "", false
}

// MarshalJSON serialises the record as a JSON object with fields in
// source order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		data, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into a record, preserving the
// document's field order.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrInvalidInput
	}

	rec := NewRecord()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return ErrInvalidInput
		}
		v, err := decodeValue(dec)
		if err != nil {
			return err
		}
		rec.Set(key, v)
	}
	if _, err := dec.Token(); err != nil { // closing }
		return err
	}

	*r = rec
	return nil
}
