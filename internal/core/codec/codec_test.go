package codec

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	fields := []string{"tags", "links"}
	record := map[string]any{
		"title": "Portfolio",
		"tags":  []any{"go", "postgres"},
		"links": map[string]any{"github": "https://github.com/x"},
	}

	encoded, err := Encode(record, fields)
	require.NoError(t, err)
	assert.Equal(t, `["go","postgres"]`, encoded["tags"])
	assert.Equal(t, `{"github":"https://github.com/x"}`, encoded["links"])

	decoded := Decode(context.Background(), encoded, fields)
	assert.Equal(t, record, decoded)
}

func TestEncode_StringsPassThrough(t *testing.T) {
	record := map[string]any{"tags": `["a","b"]`}

	encoded, err := Encode(record, []string{"tags"})
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, encoded["tags"], "already encoded text must not be wrapped again")
}

func TestEncode_AbsentAndNilUntouched(t *testing.T) {
	record := map[string]any{"title": "x", "images": nil}

	encoded, err := Encode(record, []string{"tags", "images"})
	require.NoError(t, err)

	_, hasTags := encoded["tags"]
	assert.False(t, hasTags, "partial update must not add absent encoded fields")
	assert.Nil(t, encoded["images"])
	assert.Contains(t, encoded, "images")
}

func TestEncode_DoesNotMutateInput(t *testing.T) {
	record := map[string]any{"tags": []string{"a"}}

	_, err := Encode(record, []string{"tags"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, record["tags"])
}

func TestEncode_UsesFieldValuer(t *testing.T) {
	record := map[string]any{"tags": Of([]string{"x"})}

	encoded, err := Encode(record, []string{"tags"})
	require.NoError(t, err)
	assert.Equal(t, `["x"]`, encoded["tags"])
}

func TestDecode_MalformedKeepsRaw(t *testing.T) {
	record := map[string]any{"tags": "go, rust", "images": "[broken"}

	decoded := Decode(context.Background(), record, []string{"tags", "images"})
	assert.Equal(t, "go, rust", decoded["tags"])
	assert.Equal(t, "[broken", decoded["images"])
}

func TestDecode_StructuredValueUntouched(t *testing.T) {
	record := map[string]any{"tags": []any{"a"}}

	decoded := Decode(context.Background(), record, []string{"tags"})
	assert.Equal(t, []any{"a"}, decoded["tags"])
}

func TestField_ScanAndValue(t *testing.T) {
	var f StringList
	require.NoError(t, f.Scan(`["go","sql"]`))
	assert.True(t, f.Valid)
	assert.False(t, f.Malformed())
	assert.Equal(t, []string{"go", "sql"}, f.Val)

	v, err := f.Value()
	require.NoError(t, err)
	assert.Equal(t, `["go","sql"]`, v)
}

func TestField_ScanBytes(t *testing.T) {
	var f StringMap
	require.NoError(t, f.Scan([]byte(`{"site":"https://example.com"}`)))
	assert.Equal(t, "https://example.com", f.Val["site"])
}

func TestField_NullDistinctFromEmpty(t *testing.T) {
	var null StringList
	require.NoError(t, null.Scan(nil))
	assert.False(t, null.Valid)

	var empty StringList
	require.NoError(t, empty.Scan(`[]`))
	assert.True(t, empty.Valid)
	assert.Empty(t, empty.Val)

	nullJSON, err := json.Marshal(null)
	require.NoError(t, err)
	assert.JSONEq(t, `null`, string(nullJSON))

	emptyJSON, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(emptyJSON))

	v, err := null.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestField_NilCollectionRoundTrips(t *testing.T) {
	list := Of([]string(nil))
	v, err := list.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	var back StringList
	require.NoError(t, back.Scan(v))
	assert.True(t, back.Valid)
	assert.False(t, back.Malformed())
	assert.Empty(t, back.Val)

	out, err := json.Marshal(list)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(out))

	m := Of(map[string]string(nil))
	v, err = m.Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", v)
}

func TestField_ScanNullTextIsNull(t *testing.T) {
	var f StringMap
	require.NoError(t, f.Scan("null"))
	assert.False(t, f.Valid)
	assert.False(t, f.Malformed())
}

func TestField_MalformedSurvivesRoundTrip(t *testing.T) {
	var f StringList
	require.NoError(t, f.Scan("not json"))
	assert.True(t, f.Malformed())

	v, err := f.Value()
	require.NoError(t, err)
	assert.Equal(t, "not json", v)

	out, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `"not json"`, string(out))
}

func TestField_UnmarshalAcceptsBothShapes(t *testing.T) {
	var payload struct {
		Tags  StringList `json:"tags"`
		Links StringMap  `json:"links"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"tags":["a","b"],"links":"{\"x\":\"y\"}"}`), &payload))
	assert.Equal(t, []string{"a", "b"}, payload.Tags.Val)
	assert.Equal(t, "y", payload.Links.Val["x"])

	v, err := payload.Links.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"x":"y"}`, v, "stringified input must be stored once-encoded")
}

func TestField_UnmarshalRejectsMalformed(t *testing.T) {
	var payload struct {
		Tags StringList `json:"tags"`
	}

	err := json.Unmarshal([]byte(`{"tags":"go, rust"}`), &payload)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"tags":{"a":1}}`), &payload)
	assert.Error(t, err)
}

func TestField_UnmarshalNull(t *testing.T) {
	f := Of([]string{"a"})
	require.NoError(t, json.Unmarshal([]byte(`null`), &f))
	assert.False(t, f.Valid)
}
