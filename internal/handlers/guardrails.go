// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/peterjpitcher/cheersai2.0-sub004/internal/middleware"
	"github.com/peterjpitcher/cheersai2.0-sub004/internal/models"
)

// maxGuardrailTextLen caps feedback text. Guardrails become prompt bullets,
// so anything longer would crowd out the brief itself.
const maxGuardrailTextLen = 500

// createGuardrailRequest is the POST /api/v1/guardrails body.
type createGuardrailRequest struct {
	FeedbackType string `json:"feedback_type"`
	FeedbackText string `json:"feedback_text"`
	ContextType  string `json:"context_type,omitempty"`
}

// guardrailListResponse is the GET /api/v1/guardrails body.
type guardrailListResponse struct {
	Guardrails []models.GuardrailRow `json:"guardrails"`
}

// ListGuardrails handles GET /api/v1/guardrails. The optional context query
// parameter scopes the list the same way generation does: the named scope
// plus the always-on general rows.
func (a *API) ListGuardrails(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())
	if tenant == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid API key")
		return
	}

	contextType, ok := parseGuardrailContext(r.URL.Query().Get("context"))
	if !ok {
		writeError(w, http.StatusBadRequest, "validation_error", "context must be general, quick_post or campaign.")
		return
	}

	rows, err := a.guardrails.ActiveGuardrails(r.Context(), tenant.ID, contextType)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if rows == nil {
		rows = []models.GuardrailRow{}
	}
	writeJSON(w, http.StatusOK, guardrailListResponse{Guardrails: rows})
}

// CreateGuardrail handles POST /api/v1/guardrails. This is how caption
// feedback ("never call us cheap") becomes a persistent prompt instruction.
func (a *API) CreateGuardrail(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())
	if tenant == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid API key")
		return
	}

	var req createGuardrailRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "request body is not valid JSON: "+err.Error())
		return
	}

	if msg := validateCreateGuardrail(&req); msg != "" {
		writeError(w, http.StatusBadRequest, "validation_error", msg)
		return
	}
	contextType, _ := parseGuardrailContext(req.ContextType)

	row := &models.GuardrailRow{
		TenantID:     tenant.ID,
		FeedbackType: models.FeedbackType(req.FeedbackType),
		FeedbackText: req.FeedbackText,
		ContextType:  contextType,
	}
	if err := a.guardrails.Create(r.Context(), row); err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

// DeactivateGuardrail handles DELETE /api/v1/guardrails/{id}. Rows are
// soft-disabled, never deleted, so repeating the call is a no-op.
func (a *API) DeactivateGuardrail(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())
	if tenant == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid API key")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "guardrail id must be a UUID.")
		return
	}

	if err := a.guardrails.Deactivate(r.Context(), tenant.ID, id); err != nil {
		writeInternalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// validateCreateGuardrail returns the first problem found, empty when valid.
func validateCreateGuardrail(req *createGuardrailRequest) string {
	switch models.FeedbackType(req.FeedbackType) {
	case models.FeedbackAvoid, models.FeedbackInclude, models.FeedbackTone,
		models.FeedbackStyle, models.FeedbackFormat:
	default:
		return "feedback_type must be avoid, include, tone, style or format."
	}

	req.FeedbackText = strings.TrimSpace(req.FeedbackText)
	if req.FeedbackText == "" {
		return "feedback_text is required."
	}
	if utf8.RuneCountInString(req.FeedbackText) > maxGuardrailTextLen {
		return "feedback_text is too long (max 500 characters)."
	}

	if _, ok := parseGuardrailContext(req.ContextType); !ok {
		return "context_type must be general, quick_post or campaign."
	}
	return ""
}

// parseGuardrailContext maps a wire value onto the scope enum. Empty input
// means the always-on general scope.
func parseGuardrailContext(s string) (models.GuardrailContext, bool) {
	switch models.GuardrailContext(s) {
	case "":
		return models.GuardrailContextGeneral, true
	case models.GuardrailContextGeneral:
		return models.GuardrailContextGeneral, true
	case models.GuardrailContextQuickPost:
		return models.GuardrailContextQuickPost, true
	case models.GuardrailContextCampaign:
		return models.GuardrailContextCampaign, true
	default:
		return "", false
	}
}
