package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_AbsentSpellings(t *testing.T) {
	// Every spelling of "absent" must normalise to the same value.
	variants := []Value{
		String(""),
		String("  "),
		String("null"),
		String("NULL"),
		String("None"),
		String("nil"),
		String("[]"),
		String("{}"),
		List(),
		Object(),
		Null(),
	}

	for _, v := range variants {
		norm := Normalize(v)
		assert.True(t, norm.IsNull(), "expected null for %#v", v)
	}

	// And all pairs compare equal after normalisation.
	for _, a := range variants {
		for _, b := range variants {
			assert.True(t, Normalize(a).Equal(Normalize(b)))
		}
	}
}

func TestNormalize_JSONLookingStrings(t *testing.T) {
	// A string that happens to contain a JSON document compares equal
	// to the parsed structure.
	parsed := Normalize(String(`["a", "b"]`))
	direct := Normalize(List(String("a"), String("b")))
	assert.True(t, parsed.Equal(direct))

	obj := Normalize(String(`{"x": 1}`))
	want := Normalize(Object("x", Number(1)))
	assert.True(t, obj.Equal(want))
}

func TestNormalize_MalformedJSONStaysString(t *testing.T) {
	v := Normalize(String("[not json"))
	s, ok := v.Str()
	require.True(t, ok)
	assert.Equal(t, "[not json", s)
}

func TestNormalize_TrimsWhitespace(t *testing.T) {
	a := Normalize(String("  Ephedra  "))
	b := Normalize(String("Ephedra"))
	assert.True(t, a.Equal(b))
}

func TestNormalize_PreservesNonEmptyValues(t *testing.T) {
	v := Normalize(String("DMAA"))
	s, ok := v.Str()
	require.True(t, ok)
	assert.Equal(t, "DMAA", s)

	n := Normalize(Number(42))
	f, ok := n.Num()
	require.True(t, ok)
	assert.Equal(t, 42.0, f)
}

func TestEqual_KindMismatch(t *testing.T) {
	assert.False(t, String("1").Equal(Number(1)))
	assert.False(t, Bool(true).Equal(String("true")))
}

func TestEqual_ObjectOrderIrrelevant(t *testing.T) {
	a := Object("x", Number(1), "y", Number(2))
	b := Object("y", Number(2), "x", Number(1))
	assert.True(t, a.Equal(b))
}

func TestEqual_ListOrderMatters(t *testing.T) {
	a := List(String("a"), String("b"))
	b := List(String("b"), String("a"))
	assert.False(t, a.Equal(b))
}

func TestParseValue_Timestamp(t *testing.T) {
	v, err := ParseValue([]byte(`{"_seconds": 1700000000, "_nanoseconds": 0}`))
	require.NoError(t, err)

	seconds, ok := v.Field("_seconds")
	require.True(t, ok)
	f, ok := seconds.Num()
	require.True(t, ok)
	assert.Equal(t, 1700000000.0, f)
}

func TestMarshalJSON_SortedObjectKeys(t *testing.T) {
	v := Object("z", Number(1), "a", String("b"))
	data, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"a":"b","z":1}`, string(data))
}

func TestMarshalJSON_RoundTrip(t *testing.T) {
	original := `{"Name":"Ephedra","Reason":["banned"],"count":3,"active":true,"note":null}`
	v, err := ParseValue([]byte(original))
	require.NoError(t, err)

	data, err := v.MarshalJSON()
	require.NoError(t, err)

	again, err := ParseValue(data)
	require.NoError(t, err)
	assert.True(t, v.Equal(again))
}

func TestText_Rendering(t *testing.T) {
	assert.Equal(t, "", Null().Text())
	assert.Equal(t, "Ephedra", String("Ephedra").Text())
	assert.Equal(t, "3", Number(3).Text())
	assert.Equal(t, "3.5", Number(3.5).Text())
	assert.Equal(t, "true", Bool(true).Text())
	assert.Equal(t, `["a"]`, List(String("a")).Text())
}
