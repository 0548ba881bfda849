// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/peterjpitcher/cheersai2.0-sub004/internal/models"
)

// BrandStore handles brand profile database operations.
type BrandStore struct {
	db *sql.DB
}

// NewBrandStore creates a new BrandStore with the given database connection.
func NewBrandStore(db *sql.DB) *BrandStore {
	return &BrandStore{db: db}
}

// BrandByTenant retrieves a tenant's brand profile. Returns nil if the
// tenant has not completed brand setup yet.
func (s *BrandStore) BrandByTenant(ctx context.Context, tenantID uuid.UUID) (*models.BrandProfile, error) {
	b := &models.BrandProfile{}
	var boundaries, tones []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, venue_name, venue_type, serves_food, serves_drinks,
		       booking_url, website_url, phone, whatsapp, opening_hours,
		       menu_food_url, menu_drink_url, content_boundaries, tone_attributes,
		       tone_formality, tone_playfulness, created_at, updated_at
		FROM brand_profiles WHERE tenant_id = $1
	`, tenantID).Scan(
		&b.ID, &b.TenantID, &b.VenueName, &b.VenueType, &b.ServesFood, &b.ServesDrinks,
		&b.BookingURL, &b.WebsiteURL, &b.Phone, &b.WhatsApp, &b.OpeningHours,
		&b.MenuFoodURL, &b.MenuDrinkURL, &boundaries, &tones,
		&b.ToneFormality, &b.TonePlayfulness, &b.CreatedAt, &b.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find brand profile: %w", err)
	}

	if err := unmarshalList(boundaries, &b.ContentBoundaries); err != nil {
		return nil, fmt.Errorf("decode content boundaries: %w", err)
	}
	if err := unmarshalList(tones, &b.ToneAttributes); err != nil {
		return nil, fmt.Errorf("decode tone attributes: %w", err)
	}
	return b, nil
}

// Upsert creates or replaces a tenant's brand profile. One profile per
// tenant; repeated saves overwrite.
func (s *BrandStore) Upsert(ctx context.Context, b *models.BrandProfile) error {
	boundaries, err := json.Marshal(b.ContentBoundaries)
	if err != nil {
		return fmt.Errorf("encode content boundaries: %w", err)
	}
	tones, err := json.Marshal(b.ToneAttributes)
	if err != nil {
		return fmt.Errorf("encode tone attributes: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO brand_profiles (
			tenant_id, venue_name, venue_type, serves_food, serves_drinks,
			booking_url, website_url, phone, whatsapp, opening_hours,
			menu_food_url, menu_drink_url, content_boundaries, tone_attributes,
			tone_formality, tone_playfulness
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (tenant_id) DO UPDATE SET
			venue_name = EXCLUDED.venue_name,
			venue_type = EXCLUDED.venue_type,
			serves_food = EXCLUDED.serves_food,
			serves_drinks = EXCLUDED.serves_drinks,
			booking_url = EXCLUDED.booking_url,
			website_url = EXCLUDED.website_url,
			phone = EXCLUDED.phone,
			whatsapp = EXCLUDED.whatsapp,
			opening_hours = EXCLUDED.opening_hours,
			menu_food_url = EXCLUDED.menu_food_url,
			menu_drink_url = EXCLUDED.menu_drink_url,
			content_boundaries = EXCLUDED.content_boundaries,
			tone_attributes = EXCLUDED.tone_attributes,
			tone_formality = EXCLUDED.tone_formality,
			tone_playfulness = EXCLUDED.tone_playfulness,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`,
		b.TenantID, b.VenueName, b.VenueType, b.ServesFood, b.ServesDrinks,
		b.BookingURL, b.WebsiteURL, b.Phone, b.WhatsApp, b.OpeningHours,
		b.MenuFoodURL, b.MenuDrinkURL, boundaries, tones,
		b.ToneFormality, b.TonePlayfulness,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert brand profile: %w", err)
	}
	return nil
}

// unmarshalList decodes a JSONB string array column, treating NULL as empty.
func unmarshalList(raw []byte, dst *[]string) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
