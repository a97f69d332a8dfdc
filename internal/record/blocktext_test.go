package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payloadFromJSON(t *testing.T, raw string) Payload {
	t.Helper()
	var p Payload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return p
}

func TestFormatBlock_FieldsInPayloadOrder(t *testing.T) {
	p := payloadFromJSON(t, `{"name":"Ada Lovelace","email":"ada@x.com"}`)

	got := FormatBlock("personal", p)
	assert.Equal(t, "\n=== PERSONAL DATA ===\nname: Ada Lovelace\nemail: ada@x.com", got)
}

func TestFieldText(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"string", "hello", "hello"},
		{"nil", nil, "null"},
		{"bool", true, "true"},
		{"number", json.Number("3.90"), "3.90"},
		{"list of strings", []any{"Go", "Python"}, "Go, Python"},
		{"list of objects", []any{map[string]any{"name": "Go"}}, `{"name":"Go"}`},
		{"nested object", map[string]any{"city": "London"}, `{"city":"London"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FieldText(tt.value))
		})
	}
}

func TestEncode_TrailingNewlineAndBlockOrder(t *testing.T) {
	rec := &Record{}
	rec.MergeSection("personal", payloadFromJSON(t, `{"name":"Ada"}`))
	rec.MergeSection("education", payloadFromJSON(t, `{"degree":"BSc"}`))

	got := Encode(rec)
	assert.Equal(t, "\n=== PERSONAL DATA ===\nname: Ada\n=== EDUCATION DATA ===\ndegree: BSc\n", got)
}

func TestSplitBlocks(t *testing.T) {
	text := "\n=== PERSONAL DATA ===\nname: Ada\nemail: ada@x.com\n=== SKILLS DATA ===\ntechnicalSkills: Go, Python\n"

	blocks := SplitBlocks(text)
	require.Len(t, blocks, 2)
	assert.Equal(t, "PERSONAL", blocks[0].Name)
	assert.Equal(t, "name: Ada\nemail: ada@x.com", blocks[0].Body)
	assert.Equal(t, "SKILLS", blocks[1].Name)
	assert.Equal(t, "technicalSkills: Go, Python", blocks[1].Body)
}

func TestSplitBlocks_IgnoresLeadingGarbage(t *testing.T) {
	blocks := SplitBlocks("junk before\n=== PERSONAL DATA ===\nname: Ada\n")
	require.Len(t, blocks, 1)
	assert.Equal(t, "PERSONAL", blocks[0].Name)
}

func TestMergeText_ReplacesMatchingBlockAndAppends(t *testing.T) {
	initial := MergeText("", "personal", payloadFromJSON(t, `{"email":"ada@x.com"}`))
	withEducation := MergeText(initial, "education", payloadFromJSON(t, `{"degree":"BSc"}`))
	updated := MergeText(withEducation, "Personal", payloadFromJSON(t, `{"email":"ada@y.com"}`))

	blocks := SplitBlocks(updated)
	require.Len(t, blocks, 2)
	assert.Equal(t, "EDUCATION", blocks[0].Name)
	assert.Equal(t, "PERSONAL", blocks[1].Name)
	assert.Equal(t, "email: ada@y.com", blocks[1].Body)
	assert.NotContains(t, updated, "ada@x.com")
}

func TestMergeText_ResubmitSamePayloadIsIdempotent(t *testing.T) {
	p := payloadFromJSON(t, `{"name":"Ada","email":"ada@x.com"}`)
	once := MergeText("", "personal", p)
	twice := MergeText(once, "personal", p)

	assert.Equal(t, once, twice)
}

func TestDecode_RoundTripsFlattenedFields(t *testing.T) {
	rec := &Record{}
	rec.MergeSection("personal", payloadFromJSON(t, `{"name":"Ada","skills":["Go","Python"]}`))

	decoded := Decode(Encode(rec))
	require.Len(t, decoded.Sections, 1)
	assert.Equal(t, "PERSONAL", decoded.Sections[0].Name)

	name, _ := decoded.Sections[0].Fields.Get("name")
	assert.Equal(t, "Ada", name)

	// List values come back as their flattened text form.
	skills, _ := decoded.Sections[0].Fields.Get("skills")
	assert.Equal(t, "Go, Python", skills)
}

func TestDecode_ValueContainingColon(t *testing.T) {
	decoded := Decode("\n=== PERSONAL DATA ===\nportfolio: https://ada.dev\n")
	require.Len(t, decoded.Sections, 1)
	v, _ := decoded.Sections[0].Fields.Get("portfolio")
	assert.Equal(t, "https://ada.dev", v)
}
