// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// devAPIKeySecret is the fixed development API key secret. The full key a
// client sends is "ck_dev-anchor_local-dev-secret".
const (
	devAPIKeyID     = "dev-anchor"
	devAPIKeySecret = "local-dev-secret"
)

// Seed populates the database with initial development data: one tenant
// ("The Anchor", a riverside pub), its brand profile and a handful of
// guardrails. Skipped when any tenant already exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM tenants").Scan(&count); err != nil {
		return fmt.Errorf("seed check tenants: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(devAPIKeySecret), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	var tenantID string
	err = db.QueryRow(`
		INSERT INTO tenants (name, api_key_id, api_key_hash)
		VALUES ($1, $2, $3)
		RETURNING id
	`, "The Anchor", devAPIKeyID, string(hash)).Scan(&tenantID)
	if err != nil {
		return fmt.Errorf("seed insert tenant: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO brand_profiles (
			tenant_id, venue_name, venue_type, serves_food, serves_drinks,
			booking_url, website_url, phone, opening_hours,
			content_boundaries, tone_attributes, tone_formality, tone_playfulness
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		tenantID, "The Anchor", "pub", true, true,
		"https://the-anchor.example/book", "https://the-anchor.example",
		"01234 567890", "Mon-Sat 12-11pm, Sun 12-10:30pm",
		`["politics","religion"]`, `["warm","witty","community-focused"]`, 4, 7,
	)
	if err != nil {
		return fmt.Errorf("seed insert brand profile: %w", err)
	}

	guardrails := []struct {
		feedbackType string
		text         string
		contextType  string
	}{
		{"avoid", "cheap", "general"},
		{"avoid", "booze", "general"},
		{"include", "dog friendly", "general"},
		{"style", "keep sentences short and punchy", "quick_post"},
	}
	for _, g := range guardrails {
		_, err = db.Exec(`
			INSERT INTO guardrails (tenant_id, feedback_type, feedback_text, context_type)
			VALUES ($1, $2, $3, $4)
		`, tenantID, g.feedbackType, g.text, g.contextType)
		if err != nil {
			return fmt.Errorf("seed insert guardrail: %w", err)
		}
	}

	slog.Info("database seeded with development tenant",
		"tenant", "The Anchor",
		"api_key", "ck_"+devAPIKeyID+"_"+devAPIKeySecret,
	)

	return nil
}
