package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSection_ValidPersonalPayload(t *testing.T) {
	err := ValidateSection("personal", []byte(`{"name":"Ada Lovelace","email":"ada@x.com"}`))
	assert.NoError(t, err)
}

func TestValidateSection_NameIsCaseInsensitive(t *testing.T) {
	assert.NoError(t, ValidateSection("PERSONAL", []byte(`{"name":"Ada"}`)))
	assert.NoError(t, ValidateSection("  Personal ", []byte(`{"name":"Ada"}`)))
}

func TestValidateSection_WrongFieldType(t *testing.T) {
	err := ValidateSection("personal", []byte(`{"name":123}`))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "personal", validationErr.Section)
	require.NotEmpty(t, validationErr.Errors)
	assert.Equal(t, "name", validationErr.Errors[0].Field)
}

func TestValidateSection_NonObjectPayload(t *testing.T) {
	err := ValidateSection("personal", []byte(`"just a string"`))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestValidateSection_ExperienceEntries(t *testing.T) {
	valid := `{"experience":[{"jobTitle":"Engineer","companyName":"Acme","isCurrent":true}]}`
	assert.NoError(t, ValidateSection("experience", []byte(valid)))

	invalid := `{"experience":[{"jobTitle":42}]}`
	var validationErr *ValidationError
	require.ErrorAs(t, ValidateSection("experience", []byte(invalid)), &validationErr)
}

func TestValidateSection_UnknownSectionPasses(t *testing.T) {
	// Sections without a registered schema save without validation.
	assert.NoError(t, ValidateSection("hobbies", []byte(`{"anything":"goes"}`)))
}

func TestValidateSection_ExtraFieldsAllowed(t *testing.T) {
	err := ValidateSection("personal", []byte(`{"name":"Ada","customField":"kept"}`))
	assert.NoError(t, err)
}

func TestKnown(t *testing.T) {
	for _, name := range []string{"personal", "experience", "education", "skills", "languages", "achievements", "certifications"} {
		assert.True(t, Known(name), "section %s", name)
	}
	assert.False(t, Known("hobbies"))
}
