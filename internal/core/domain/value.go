package domain

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// ValueKind discriminates the variants of Value.
type ValueKind int

// Value kinds.
const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindObject
)

// Value is one field value as published upstream. The source mixes
// types freely between snapshots (a field may be a string in one
// snapshot and a list in the next), so values are modelled as a tagged
// union over the JSON types rather than a fixed schema.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
	list []Value
	obj  []objField
}

// objField is one key/value pair within an object value, kept in
// document order.
type objField struct {
	name  string
	value Value
}

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number returns a numeric value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// List returns a list value over the given items.
func List(items ...Value) Value {
	return Value{kind: KindList, list: items}
}

// Object returns an object value. Pairs must alternate key, value;
// keys must be string values.
func Object(pairs ...any) Value {
	v := Value{kind: KindObject}
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			continue
		}
		val, ok := pairs[i+1].(Value)
		if !ok {
			continue
		}
		v.obj = append(v.obj, objField{name: key, value: val})
	}
	return v
}

// Kind returns the value's variant.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Str returns the string content and whether the value is a string.
func (v Value) Str() (string, bool) {
	return v.str, v.kind == KindString
}

// Num returns the numeric content and whether the value is a number.
func (v Value) Num() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Items returns the list members, or nil for non-lists.
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}
	return v.list
}

// Field returns the named member of an object value.
func (v Value) Field(name string) (Value, bool) {
	if v.kind != KindObject {
		return Null(), false
	}
	for _, f := range v.obj {
		if f.name == name {
			return f.value, true
		}
	}
	return Null(), false
}

// Text renders the value as display text. Strings come back verbatim;
// everything else renders as compact JSON, with null as "".
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		data, err := v.MarshalJSON()
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// nullTokens are string spellings that denote an absent value.
var nullTokens = map[string]struct{}{
	"":     {},
	"null": {},
	"none": {},
	"nil":  {},
}

// Normalize maps the many upstream spellings of "absent" onto a single
// canonical form so comparisons see through formatting churn:
//
//   - "" and the null-word strings become null
//   - strings that look like JSON documents ("[...]", "{...}") are
//     parsed, so "[]" and an actual empty list compare equal
//   - empty lists and empty objects become null
//   - list and object members are normalised recursively
//
// Two fields differ only when their normalised forms differ.
func Normalize(v Value) Value {
	switch v.kind {
	case KindString:
		s := strings.TrimSpace(v.str)
		if _, ok := nullTokens[strings.ToLower(s)]; ok {
			return Null()
		}
		if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") {
			parsed, err := ParseValue([]byte(s))
			if err == nil {
				return Normalize(parsed)
			}
		}
		return String(s)
	case KindList:
		if len(v.list) == 0 {
			return Null()
		}
		items := make([]Value, len(v.list))
		for i, item := range v.list {
			items[i] = Normalize(item)
		}
		return Value{kind: KindList, list: items}
	case KindObject:
		if len(v.obj) == 0 {
			return Null()
		}
		fields := make([]objField, len(v.obj))
		for i, f := range v.obj {
			fields[i] = objField{name: f.name, value: Normalize(f.value)}
		}
		return Value{kind: KindObject, obj: fields}
	default:
		return v
	}
}

// Equal reports deep equality. Object member order is irrelevant;
// list order matters.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == other.str
	case KindNumber:
		return v.num == other.num
	case KindBool:
		return v.b == other.b
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.obj) != len(other.obj) {
			return false
		}
		for _, f := range v.obj {
			ov, ok := other.Field(f.name)
			if !ok || !f.value.Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

// ParseValue decodes a single JSON value.
func ParseValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return Null(), err
	}
	return v, nil
}

// decodeValue reads the next complete value from the decoder.
func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Null(), err
	}
	return decodeToken(dec, tok)
}

// decodeToken turns a lead token into a value, consuming the rest of
// a compound value from the decoder.
func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Null(), err
		}
		return Number(f), nil
	case json.Delim:
		switch t {
		case '[':
			v := Value{kind: KindList}
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return Null(), err
				}
				v.list = append(v.list, item)
			}
			if _, err := dec.Token(); err != nil { // closing ]
				return Null(), err
			}
			return v, nil
		case '{':
			v := Value{kind: KindObject}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Null(), err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Null(), ErrInvalidInput
				}
				val, err := decodeValue(dec)
				if err != nil {
					return Null(), err
				}
				v.obj = append(v.obj, objField{name: key, value: val})
			}
			if _, err := dec.Token(); err != nil { // closing }
				return Null(), err
			}
			return v, nil
		}
	}
	return Null(), ErrInvalidInput
}

// MarshalJSON serialises the value. Object keys come out sorted so
// the same logical value always serialises to the same bytes.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return []byte(strconv.FormatFloat(v.num, 'f', -1, 64)), nil
	case KindBool:
		return []byte(strconv.FormatBool(v.b)), nil
	case KindList:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			data, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(data)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case KindObject:
		fields := make([]objField, len(v.obj))
		copy(fields, v.obj)
		sort.Slice(fields, func(i, j int) bool { return fields[i].name < fields[j].name })

		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, f := range fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(f.name)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			data, err := f.value.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(data)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	}
	return nil, ErrInvalidInput
}

// UnmarshalJSON decodes any JSON value.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseValue(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
