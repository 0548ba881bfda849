// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

// Package models defines the persistent domain entities shared between the
// stores and the generation pipeline.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant represents a venue account. Each tenant owns one brand profile,
// at most one voice profile, and any number of guardrail rows.
type Tenant struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	APIKeyID   string    `json:"api_key_id"`
	APIKeyHash string    `json:"-"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
