// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for generation request fields.
const (
	maxPromptLen       = 500
	maxToneLen         = 100
	maxPlatforms       = 10
	maxCampaignNameLen = 200
	maxObjectiveLen    = 500
	maxCTAOptions      = 5
	maxCTALen          = 100
)

// validateGenerateRequest checks a decoded generation request and returns
// the first problem found, empty string when valid. Domain defaults (unknown
// platform fallback, tone precedence) are the pipeline's job; this only
// rejects inputs that are structurally unusable.
func validateGenerateRequest(req *generateRequest) string {
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" && req.Campaign == nil {
		return "Prompt is required."
	}
	if utf8.RuneCountInString(req.Prompt) > maxPromptLen {
		return "Prompt is too long (max 500 characters)."
	}
	if utf8.RuneCountInString(req.Tone) > maxToneLen {
		return "Tone is too long (max 100 characters)."
	}
	if len(req.Platforms) > maxPlatforms {
		return "Too many platforms (max 10)."
	}
	for _, p := range req.Platforms {
		if strings.TrimSpace(p) == "" {
			return "Platform names must not be blank."
		}
	}

	c := req.Campaign
	if c == nil {
		return ""
	}
	if utf8.RuneCountInString(c.Name) > maxCampaignNameLen {
		return "Campaign name is too long (max 200 characters)."
	}
	if utf8.RuneCountInString(c.Objective) > maxObjectiveLen {
		return "Campaign objective is too long (max 500 characters)."
	}
	if strings.TrimSpace(c.Name) == "" && strings.TrimSpace(c.Objective) == "" && req.Prompt == "" {
		return "Campaign requests need a name, an objective or a prompt."
	}
	if len(c.CTAOptions) > maxCTAOptions {
		return "Too many call-to-action options (max 5)."
	}
	for _, cta := range c.CTAOptions {
		if utf8.RuneCountInString(cta) > maxCTALen {
			return "Call-to-action options are too long (max 100 characters)."
		}
	}
	if c.MaxLength < 0 {
		return "max_length must not be negative."
	}
	if c.ParagraphCount < 0 || c.ParagraphCount > 10 {
		return "paragraph_count must be between 0 and 10."
	}
	if c.EventDate != nil && c.ScheduledFor != nil && c.EventDate.Before(*c.ScheduledFor) {
		return "event_date must not be before scheduled_for."
	}

	return ""
}
