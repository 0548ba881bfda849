// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

// Package handlers implements the CheersAI HTTP API. Handlers decode and
// validate request bodies, call the generation service, and translate its
// typed errors into the JSON error envelope.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/peterjpitcher/cheersai2.0-sub004/internal/generation"
	"github.com/peterjpitcher/cheersai2.0-sub004/internal/middleware"
	"github.com/peterjpitcher/cheersai2.0-sub004/internal/models"
)

// maxRequestBody caps the generate request body at 64 KiB. Briefs are a few
// hundred characters; anything larger is a client bug or abuse.
const maxRequestBody = 64 << 10

// GenerationService is the handler's view of the content pipeline;
// *generation.Service satisfies it.
type GenerationService interface {
	Generate(ctx context.Context, tenant *models.Tenant, userID uuid.UUID, req generation.Request) (map[string]string, error)
}

// GuardrailRepo is the handler's view of guardrail persistence;
// *store.GuardrailStore satisfies it.
type GuardrailRepo interface {
	ActiveGuardrails(ctx context.Context, tenantID uuid.UUID, contextType models.GuardrailContext) ([]models.GuardrailRow, error)
	Create(ctx context.Context, g *models.GuardrailRow) error
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) error
}

// UsageRepo reads a tenant's recorded usage; *store.UsageStore satisfies it.
type UsageRepo interface {
	PeriodForTenant(ctx context.Context, tenantID uuid.UUID, period string) (*models.UsagePeriod, error)
}

// API bundles the dependencies of the JSON API handlers.
type API struct {
	service    GenerationService
	guardrails GuardrailRepo
	usage      UsageRepo
}

// NewAPI creates the API handler set.
func NewAPI(service GenerationService, guardrails GuardrailRepo, usage UsageRepo) *API {
	return &API{service: service, guardrails: guardrails, usage: usage}
}

// generateRequest is the POST /api/v1/generate body.
type generateRequest struct {
	Prompt    string           `json:"prompt"`
	Tone      string           `json:"tone,omitempty"`
	Platforms []string         `json:"platforms,omitempty"`
	Campaign  *campaignRequest `json:"campaign,omitempty"`
}

type campaignRequest struct {
	Type            string     `json:"type,omitempty"`
	Name            string     `json:"name,omitempty"`
	Objective       string     `json:"objective,omitempty"`
	EventDate       *time.Time `json:"event_date,omitempty"`
	ScheduledFor    *time.Time `json:"scheduled_for,omitempty"`
	CTAOptions      []string   `json:"cta_options,omitempty"`
	IncludeEmojis   *bool      `json:"include_emojis,omitempty"`
	IncludeHashtags *bool      `json:"include_hashtags,omitempty"`
	MaxLength       int        `json:"max_length,omitempty"`
	ParagraphCount  int        `json:"paragraph_count,omitempty"`
}

// generateResponse is the success body: one caption per platform.
type generateResponse struct {
	Contents map[string]string `json:"contents"`
}

// Generate handles POST /api/v1/generate.
func (a *API) Generate(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())
	if tenant == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid API key")
		return
	}

	var req generateRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "request body is not valid JSON: "+err.Error())
		return
	}

	if msg := validateGenerateRequest(&req); msg != "" {
		writeError(w, http.StatusBadRequest, "validation_error", msg)
		return
	}

	contents, err := a.service.Generate(r.Context(), tenant, middleware.UserFromCtx(r.Context()), toGenerationRequest(req))
	if err != nil {
		writeGenerationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{Contents: contents})
}

// toGenerationRequest maps the wire schema onto the pipeline's input type.
func toGenerationRequest(req generateRequest) generation.Request {
	out := generation.Request{
		Prompt:    req.Prompt,
		Tone:      req.Tone,
		Platforms: req.Platforms,
	}
	if c := req.Campaign; c != nil {
		out.Campaign = &generation.CampaignRequest{
			Type:            c.Type,
			Name:            c.Name,
			Objective:       c.Objective,
			EventDate:       c.EventDate,
			ScheduledFor:    c.ScheduledFor,
			CTAOptions:      c.CTAOptions,
			IncludeEmojis:   c.IncludeEmojis,
			IncludeHashtags: c.IncludeHashtags,
			MaxLength:       c.MaxLength,
			ParagraphCount:  c.ParagraphCount,
		}
	}
	return out
}

// Health handles GET /health for load balancer checks.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
