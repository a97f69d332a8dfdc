package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/record"
	"github.com/jonathan/resume-builder/internal/render"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/schemas"
)

// SaveRequest is one section submission from the builder forms.
type SaveRequest struct {
	Step string          `json:"step" validate:"required"`
	Data json.RawMessage `json:"data" validate:"required"`
}

// GenerateRequest optionally pins document generation to a specific record.
type GenerateRequest struct {
	RecordID string `json:"record_id"`
}

// handleSave merges a section submission into the caller's current record.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	var payload record.Payload
	if err := json.Unmarshal(req.Data, &payload); err != nil {
		s.failWith(w, &ErrValidation{Field: "data", Message: "must be a JSON object"})
		return
	}

	if err := schemas.ValidateSection(req.Step, req.Data); err != nil {
		s.failWith(w, err)
		return
	}

	identity, err := s.resolver.Resolve(middleware.Credential(r))
	if err != nil {
		s.failWith(w, err)
		return
	}

	rec, err := s.sessions.UpsertSection(r.Context(), identity, req.Step, payload)
	if err != nil {
		s.failWith(w, err)
		return
	}

	log.Printf("[save] section %q saved for %s (record %s)", req.Step, identity, rec.ID)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Data saved successfully",
		"record_id": rec.ID,
		"identity":  identity,
	})
}

// handleStartFresh discards every record for the caller's identity.
func (s *Server) handleStartFresh(w http.ResponseWriter, r *http.Request) {
	identity, err := s.resolver.Resolve(middleware.Credential(r))
	if err != nil {
		s.failWith(w, err)
		return
	}

	if err := s.sessions.DeleteAllRecords(r.Context(), identity); err != nil {
		s.failWith(w, err)
		return
	}

	log.Printf("[start-fresh] cleared records for %s", identity)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Started fresh session",
		"identity": identity,
	})
}

// handleGetUserData returns the caller's current record as builder text.
// Unlike save, an invalid credential is rejected here rather than degraded
// to anonymous.
func (s *Server) handleGetUserData(w http.ResponseWriter, r *http.Request) {
	identity, err := s.resolver.ResolveStrict(middleware.Credential(r))
	if err != nil {
		s.failWith(w, err)
		return
	}

	rec, err := s.sessions.FindCurrentRecord(r.Context(), identity)
	if err != nil {
		s.failWith(w, err)
		return
	}
	if rec == nil {
		s.jsonResponse(w, http.StatusOK, map[string]any{
			"success":  true,
			"has_data": false,
			"message":  "No saved data found",
		})
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":   true,
		"has_data":  true,
		"data":      record.Encode(rec),
		"record_id": rec.ID,
		"identity":  identity,
	})
}

// handleGetSession returns a record by ID.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	recordID := r.PathValue("id")

	rec, err := s.sessions.GetRecordByID(r.Context(), recordID)
	if err != nil {
		s.failWith(w, err)
		return
	}
	if rec == nil {
		s.failWith(w, &ErrRecordNotFound{RecordID: recordID})
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":   true,
		"record_id": rec.ID,
		"identity":  rec.Identity,
		"data":      record.Encode(rec),
	})
}

// handleDeleteSession removes a record by ID. Idempotent.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	recordID := r.PathValue("id")

	if err := s.sessions.DeleteRecordByID(r.Context(), recordID); err != nil {
		s.failWith(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Session cleared",
	})
}

// handleGenerateResume builds a resume document from a stored record and
// returns the structured fields plus rendered HTML.
func (s *Server) handleGenerateResume(w http.ResponseWriter, r *http.Request) {
	rec, err := s.resolveGenerationRecord(r)
	if err != nil {
		s.failWith(w, err)
		return
	}

	generationID := "builder_" + uuid.NewString()
	if err := s.sessions.SaveGenerationSnapshot(r.Context(), generationID, record.Encode(rec)); err != nil {
		log.Printf("[generate] failed to save snapshot %s: %v", generationID, err)
	}

	fields := rec.Flatten()
	doc := document.Generate(fields)
	html, err := render.HTML(doc)
	if err != nil {
		s.failWith(w, err)
		return
	}

	log.Printf("[generate] generated %s from record %s", generationID, rec.ID)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":          true,
		"message":          "Resume generated successfully",
		"generation_id":    generationID,
		"source_record_id": rec.ID,
		"data":             doc,
		"html":             html,
	})
}

// handleGenerateResumePDF renders the resume document and exports it as PDF.
func (s *Server) handleGenerateResumePDF(w http.ResponseWriter, r *http.Request) {
	rec, err := s.resolveGenerationRecord(r)
	if err != nil {
		s.failWith(w, err)
		return
	}

	doc := document.Generate(rec.Flatten())
	html, err := render.HTML(doc)
	if err != nil {
		s.failWith(w, err)
		return
	}

	pdf, err := export.PDF(r.Context(), html)
	if err != nil {
		s.failWith(w, &document.GenerationError{Message: "pdf export failed", Cause: err})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"resume_%s.pdf\"", rec.ID))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.Printf("Error writing PDF response: %v", err)
	}
}

// resolveGenerationRecord picks the record a generation request targets:
// the explicit record ID when given, otherwise the caller's current record.
func (s *Server) resolveGenerationRecord(r *http.Request) (*record.Record, error) {
	var req GenerateRequest
	if body, err := io.ReadAll(r.Body); err == nil && len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, &ErrValidation{Field: "record_id", Message: "request body must be a JSON object"}
		}
	}

	if req.RecordID != "" {
		rec, err := s.sessions.GetRecordByID(r.Context(), req.RecordID)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, &ErrRecordNotFound{RecordID: req.RecordID}
		}
		return rec, nil
	}

	identity, err := s.resolver.ResolveStrict(middleware.Credential(r))
	if err != nil {
		return nil, err
	}
	rec, err := s.sessions.FindCurrentRecord(r.Context(), identity)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, &ErrRecordNotFound{}
	}
	return rec, nil
}

// validationMessage flattens a validator error into a response message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		field := verrs[0]
		return fmt.Sprintf("Field '%s' failed validation: %s", field.Field(), field.Tag())
	}
	return "Invalid request"
}
