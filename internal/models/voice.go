// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// VoiceProfile captures a tenant's trained writing voice. Zero or one per
// tenant; when absent the pipeline falls back to brand-level tone settings.
type VoiceProfile struct {
	ID       uuid.UUID `json:"id"`
	TenantID uuid.UUID `json:"tenant_id"`

	ToneAttributes  []string `json:"tone_attributes,omitempty"`
	Characteristics []string `json:"characteristics,omitempty"`

	AvgSentenceLength *int `json:"avg_sentence_length,omitempty"`

	UsesEmojis     bool    `json:"uses_emojis"`
	EmojiFrequency *string `json:"emoji_frequency,omitempty"` // "rare", "occasional", "frequent"

	HashtagStyle *string `json:"hashtag_style,omitempty"` // "none", "minimal", "heavy"

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
