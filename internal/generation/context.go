// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

package generation

import (
	"time"

	"github.com/peterjpitcher/cheersai2.0-sub004/internal/models"
)

// BrandContext is the immutable per-request snapshot of a venue's brand
// profile. The pipeline only ever reads it; it is built once when a request
// enters the service and discarded with the response.
type BrandContext struct {
	VenueName    string
	VenueType    string
	ServesFood   bool
	ServesDrinks bool

	// PreferredLink is the canonical caption link (booking falling back to
	// website). SecondaryLink is the website when a distinct booking link
	// exists, empty otherwise.
	PreferredLink string
	SecondaryLink string

	Phone        string
	WhatsApp     string
	OpeningHours string
	MenuFoodURL  string
	MenuDrinkURL string

	ContentBoundaries []string
	ToneAttributes    []string
	ToneFormality     int
	TonePlayfulness   int
}

// NewBrandContext snapshots a brand profile row into the pipeline's
// read-only view.
func NewBrandContext(b *models.BrandProfile) BrandContext {
	ctx := BrandContext{
		VenueName:         b.VenueName,
		VenueType:         b.VenueType,
		ServesFood:        b.ServesFood,
		ServesDrinks:      b.ServesDrinks,
		PreferredLink:     b.PreferredLink(),
		ContentBoundaries: append([]string(nil), b.ContentBoundaries...),
		ToneAttributes:    append([]string(nil), b.ToneAttributes...),
		ToneFormality:     b.ToneFormality,
		TonePlayfulness:   b.TonePlayfulness,
	}
	if b.BookingURL != nil && *b.BookingURL != "" && b.WebsiteURL != nil {
		ctx.SecondaryLink = *b.WebsiteURL
	}
	if b.Phone != nil {
		ctx.Phone = *b.Phone
	}
	if b.WhatsApp != nil {
		ctx.WhatsApp = *b.WhatsApp
	}
	if b.OpeningHours != nil {
		ctx.OpeningHours = *b.OpeningHours
	}
	if b.MenuFoodURL != nil {
		ctx.MenuFoodURL = *b.MenuFoodURL
	}
	if b.MenuDrinkURL != nil {
		ctx.MenuDrinkURL = *b.MenuDrinkURL
	}
	return ctx
}

// CampaignContext describes what one platform's caption is for: the
// creative brief, the event and posting times, and the per-platform
// formatting options. Built fresh per request, per platform.
type CampaignContext struct {
	Platform string

	CampaignType string
	CampaignName string
	Objective    string

	EventDate    *time.Time
	ScheduledFor time.Time

	ToneAttributes []string

	IncludeEmojis   bool
	IncludeHashtags bool

	// MaxLength overrides the platform ceiling when set lower than it.
	MaxLength      int
	ParagraphCount int

	CTAOptions []string
}

// EffectiveLimit returns the character ceiling for this campaign: the
// platform's hard limit, tightened by the caller's override when present.
func (c CampaignContext) EffectiveLimit() int {
	limit := CharacterLimit(c.Platform)
	if c.MaxLength > 0 && c.MaxLength < limit {
		return c.MaxLength
	}
	return limit
}

// Request is the schema-validated generation input. The transport layer has
// already checked types and sizes; the pipeline only applies domain defaults.
type Request struct {
	Prompt    string
	Tone      string
	Platforms []string
	Campaign  *CampaignRequest
}

// CampaignRequest carries the optional campaign fields of a request.
type CampaignRequest struct {
	Type            string
	Name            string
	Objective       string
	EventDate       *time.Time
	ScheduledFor    *time.Time
	CTAOptions      []string
	IncludeEmojis   *bool
	IncludeHashtags *bool
	MaxLength       int
	ParagraphCount  int
}

// ContextType classifies the request for guardrail scoping.
func (r Request) ContextType() models.GuardrailContext {
	if r.Campaign != nil {
		return models.GuardrailContextCampaign
	}
	return models.GuardrailContextQuickPost
}
