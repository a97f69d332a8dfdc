// Package schemas provides JSON Schema validation for section payloads. One
// schema file per known section; unknown section names pass through without
// schema validation so new form pages can save data before a schema exists.
package schemas

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var schemaFiles embed.FS

// ValidationError represents a schema validation failure with field paths.
type ValidationError struct {
	Section string
	Errors  []FieldError
}

// FieldError represents a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "section %q failed validation:", ve.Section)
	for _, err := range ve.Errors {
		fmt.Fprintf(&sb, " %s: %s;", err.Field, err.Message)
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// SchemaLoadError represents errors loading or parsing a schema itself.
type SchemaLoadError struct {
	Section string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("failed to load schema for section %q: %v", e.Section, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// ValidateSection validates a section's JSON payload against the schema for
// its name, if one exists. Section name matching is case-insensitive.
func ValidateSection(sectionName string, payload []byte) error {
	name := strings.ToLower(strings.TrimSpace(sectionName))
	content, err := schemaFiles.ReadFile(name + ".schema.json")
	if err != nil {
		// No schema registered for this section.
		return nil
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(content),
		gojsonschema.NewBytesLoader(payload),
	)
	if err != nil {
		return &SchemaLoadError{Section: name, Cause: err}
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Section: name,
		Errors:  make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}

// Known returns whether a schema is registered for the section name.
func Known(sectionName string) bool {
	name := strings.ToLower(strings.TrimSpace(sectionName))
	_, err := schemaFiles.ReadFile(name + ".schema.json")
	return err == nil
}
