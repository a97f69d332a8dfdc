// Package server provides the HTTP REST API for the resume builder.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/identity"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/jonathan/resume-builder/schemas"
)

// ErrValidation indicates a request is missing or malformed required
// fields. Caller-correctable; reported with field detail.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrRecordNotFound indicates no record could be resolved for an operation.
type ErrRecordNotFound struct {
	RecordID string
}

func (e *ErrRecordNotFound) Error() string {
	if e.RecordID != "" {
		return fmt.Sprintf("record not found: %s", e.RecordID)
	}
	return "no resume data found"
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		schemaErr     *schemas.ValidationError
		authErr       *identity.AuthError
		recordErr     *ErrRecordNotFound
		notFoundErr   *store.NotFoundError
		storageErr    *store.StorageError
		generationErr *document.GenerationError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &schemaErr):
		return http.StatusBadRequest
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	case errors.As(err, &recordErr), errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &storageErr), errors.As(err, &generationErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
