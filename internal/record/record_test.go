package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayload_PreservesFieldOrder(t *testing.T) {
	input := []byte(`{"zeta":"1","alpha":"2","mid":"3"}`)

	var p Payload
	err := json.Unmarshal(input, &p)
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, p.Keys())

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, string(input), string(out))
}

func TestPayload_ReencodeIsByteIdentical(t *testing.T) {
	// Numbers must survive without reformatting and keys must keep their
	// wire order across repeated decode/encode cycles.
	input := []byte(`{"name":"Ada","years":10,"gpa":3.90,"active":true,"note":null}`)

	var p Payload
	require.NoError(t, json.Unmarshal(input, &p))
	first, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, string(input), string(first))

	var again Payload
	require.NoError(t, json.Unmarshal(first, &again))
	second, err := json.Marshal(again)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestPayload_RejectsNonObject(t *testing.T) {
	for _, input := range []string{`[]`, `"text"`, `42`, `null`} {
		var p Payload
		err := json.Unmarshal([]byte(input), &p)
		assert.Error(t, err, "input %s", input)
	}
}

func TestPayload_SetOverwritesWithoutReordering(t *testing.T) {
	p := NewPayload()
	p.Set("a", "1")
	p.Set("b", "2")
	p.Set("a", "3")

	assert.Equal(t, []string{"a", "b"}, p.Keys())
	v, ok := p.Get("a")
	require.True(t, ok)
	assert.Equal(t, "3", v)
}

func TestCanonicalName(t *testing.T) {
	assert.Equal(t, "PERSONAL", CanonicalName("personal"))
	assert.Equal(t, "PERSONAL", CanonicalName("  Personal "))
	assert.Equal(t, "WORK EXPERIENCE", CanonicalName("Work Experience"))
}

func TestMergeSection_DistinctNamesAccumulate(t *testing.T) {
	rec := &Record{}
	p1 := NewPayload()
	p1.Set("name", "Ada")
	p2 := NewPayload()
	p2.Set("degree", "BSc")

	rec.MergeSection("personal", p1)
	rec.MergeSection("education", p2)

	require.Len(t, rec.Sections, 2)
	assert.Equal(t, "PERSONAL", rec.Sections[0].Name)
	assert.Equal(t, "EDUCATION", rec.Sections[1].Name)
}

func TestMergeSection_ResubmitReplacesAndMovesToEnd(t *testing.T) {
	rec := &Record{}
	p1 := NewPayload()
	p1.Set("email", "ada@x.com")
	p2 := NewPayload()
	p2.Set("degree", "BSc")
	p3 := NewPayload()
	p3.Set("email", "ada@y.com")

	rec.MergeSection("personal", p1)
	rec.MergeSection("education", p2)
	rec.MergeSection("Personal", p3)

	require.Len(t, rec.Sections, 2)
	assert.Equal(t, "EDUCATION", rec.Sections[0].Name)
	assert.Equal(t, "PERSONAL", rec.Sections[1].Name)

	v, ok := rec.Sections[1].Fields.Get("email")
	require.True(t, ok)
	assert.Equal(t, "ada@y.com", v)
}

func TestMergeSection_LastWriteWins(t *testing.T) {
	// Only the most recent payload per section name survives, regardless of
	// how many intermediate submissions happened.
	rec := &Record{}
	for i, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		p := NewPayload()
		p.Set("email", email)
		p.Set("rev", i)
		rec.MergeSection("personal", p)
	}

	require.Len(t, rec.Sections, 1)
	v, _ := rec.Sections[0].Fields.Get("email")
	assert.Equal(t, "c@x.com", v)
}

func TestFlatten_LaterSectionsOverride(t *testing.T) {
	rec := &Record{}
	p1 := NewPayload()
	p1.Set("name", "Ada")
	p1.Set("location", "London")
	p2 := NewPayload()
	p2.Set("location", "Cambridge")

	rec.MergeSection("personal", p1)
	rec.MergeSection("contact", p2)

	fields := rec.Flatten()
	assert.Equal(t, "Ada", fields["name"])
	assert.Equal(t, "Cambridge", fields["location"])
}

func TestRecord_JSONRoundTrip(t *testing.T) {
	p := NewPayload()
	p.Set("name", "Ada")
	rec := &Record{ID: "r1", Identity: "anonymous"}
	rec.MergeSection("personal", p)

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded Record
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "r1", decoded.ID)
	require.Len(t, decoded.Sections, 1)
	assert.Equal(t, "PERSONAL", decoded.Sections[0].Name)
	v, _ := decoded.Sections[0].Fields.Get("name")
	assert.Equal(t, "Ada", v)
}
