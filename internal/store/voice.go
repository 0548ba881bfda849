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

// VoiceStore handles voice profile database operations.
type VoiceStore struct {
	db *sql.DB
}

// NewVoiceStore creates a new VoiceStore with the given database connection.
func NewVoiceStore(db *sql.DB) *VoiceStore {
	return &VoiceStore{db: db}
}

// VoiceByTenant retrieves a tenant's trained voice profile. Returns nil if
// the tenant has not trained one; the pipeline then falls back to brand tone.
func (s *VoiceStore) VoiceByTenant(ctx context.Context, tenantID uuid.UUID) (*models.VoiceProfile, error) {
	v := &models.VoiceProfile{}
	var tones, characteristics []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, tone_attributes, characteristics, avg_sentence_length,
		       uses_emojis, emoji_frequency, hashtag_style, created_at, updated_at
		FROM voice_profiles WHERE tenant_id = $1
	`, tenantID).Scan(
		&v.ID, &v.TenantID, &tones, &characteristics, &v.AvgSentenceLength,
		&v.UsesEmojis, &v.EmojiFrequency, &v.HashtagStyle, &v.CreatedAt, &v.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find voice profile: %w", err)
	}

	if err := unmarshalList(tones, &v.ToneAttributes); err != nil {
		return nil, fmt.Errorf("decode voice tones: %w", err)
	}
	if err := unmarshalList(characteristics, &v.Characteristics); err != nil {
		return nil, fmt.Errorf("decode voice characteristics: %w", err)
	}
	return v, nil
}

// Upsert creates or replaces a tenant's voice profile.
func (s *VoiceStore) Upsert(ctx context.Context, v *models.VoiceProfile) error {
	tones, err := json.Marshal(v.ToneAttributes)
	if err != nil {
		return fmt.Errorf("encode voice tones: %w", err)
	}
	characteristics, err := json.Marshal(v.Characteristics)
	if err != nil {
		return fmt.Errorf("encode voice characteristics: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO voice_profiles (
			tenant_id, tone_attributes, characteristics, avg_sentence_length,
			uses_emojis, emoji_frequency, hashtag_style
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (tenant_id) DO UPDATE SET
			tone_attributes = EXCLUDED.tone_attributes,
			characteristics = EXCLUDED.characteristics,
			avg_sentence_length = EXCLUDED.avg_sentence_length,
			uses_emojis = EXCLUDED.uses_emojis,
			emoji_frequency = EXCLUDED.emoji_frequency,
			hashtag_style = EXCLUDED.hashtag_style,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`,
		v.TenantID, tones, characteristics, v.AvgSentenceLength,
		v.UsesEmojis, v.EmojiFrequency, v.HashtagStyle,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert voice profile: %w", err)
	}
	return nil
}
