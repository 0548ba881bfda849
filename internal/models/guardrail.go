// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// FeedbackType classifies a guardrail row into one of the five prompt
// instruction buckets.
type FeedbackType string

const (
	FeedbackAvoid   FeedbackType = "avoid"
	FeedbackInclude FeedbackType = "include"
	FeedbackTone    FeedbackType = "tone"
	FeedbackStyle   FeedbackType = "style"
	FeedbackFormat  FeedbackType = "format"
)

// GuardrailContext scopes a guardrail to a generation entry point.
// "general" rows apply everywhere.
type GuardrailContext string

const (
	GuardrailContextGeneral   GuardrailContext = "general"
	GuardrailContextQuickPost GuardrailContext = "quick_post"
	GuardrailContextCampaign  GuardrailContext = "campaign"
)

// GuardrailRow is a persisted instruction derived from user feedback or
// settings. Rows are soft-disabled via IsActive and never mutated once a
// generation has referenced them, so the audit trail stays stable.
type GuardrailRow struct {
	ID           uuid.UUID        `json:"id"`
	TenantID     uuid.UUID        `json:"tenant_id"`
	FeedbackType FeedbackType     `json:"feedback_type"`
	FeedbackText string           `json:"feedback_text"`
	ContextType  GuardrailContext `json:"context_type"`
	IsActive     bool             `json:"is_active"`
	TimesApplied int              `json:"times_applied"`
	CreatedAt    time.Time        `json:"created_at"`
}
