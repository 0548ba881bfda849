// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// BrandProfile holds the business facts and brand settings for a venue.
// It is the authoritative source the generation pipeline snapshots from;
// the pipeline itself never mutates it.
type BrandProfile struct {
	ID       uuid.UUID `json:"id"`
	TenantID uuid.UUID `json:"tenant_id"`

	VenueName    string `json:"venue_name"`
	VenueType    string `json:"venue_type"` // "pub", "restaurant", "bar", "cafe", "hotel"
	ServesFood   bool   `json:"serves_food"`
	ServesDrinks bool   `json:"serves_drinks"`

	// BookingURL is the preferred link for captions; WebsiteURL is the
	// fallback when no booking link is configured.
	BookingURL *string `json:"booking_url,omitempty"`
	WebsiteURL *string `json:"website_url,omitempty"`

	Phone    *string `json:"phone,omitempty"`    // formatted for display
	WhatsApp *string `json:"whatsapp,omitempty"` // formatted for display

	OpeningHours *string `json:"opening_hours,omitempty"`

	MenuFoodURL  *string `json:"menu_food_url,omitempty"`
	MenuDrinkURL *string `json:"menu_drink_url,omitempty"`

	// ContentBoundaries are topics the venue never wants mentioned.
	// They are folded into every generation's must-avoid guardrails.
	ContentBoundaries []string `json:"content_boundaries,omitempty"`

	ToneAttributes []string `json:"tone_attributes,omitempty"`

	// Sliders 1-10. Formality 1 is very casual; playfulness 10 is very playful.
	ToneFormality   int `json:"tone_formality"`
	TonePlayfulness int `json:"tone_playfulness"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PreferredLink returns the canonical link for captions: the booking URL
// when set, otherwise the website URL, otherwise empty.
func (b *BrandProfile) PreferredLink() string {
	if b.BookingURL != nil && *b.BookingURL != "" {
		return *b.BookingURL
	}
	if b.WebsiteURL != nil && *b.WebsiteURL != "" {
		return *b.WebsiteURL
	}
	return ""
}
