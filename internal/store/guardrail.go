// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/peterjpitcher/cheersai2.0-sub004/internal/models"
)

// GuardrailStore handles guardrail database operations.
type GuardrailStore struct {
	db *sql.DB
}

// NewGuardrailStore creates a new GuardrailStore with the given database
// connection.
func NewGuardrailStore(db *sql.DB) *GuardrailStore {
	return &GuardrailStore{db: db}
}

// ActiveGuardrails returns the active rows scoped to the given context plus
// the always-on general rows, oldest first so earlier feedback wins ties
// during dedupe.
func (s *GuardrailStore) ActiveGuardrails(ctx context.Context, tenantID uuid.UUID, contextType models.GuardrailContext) ([]models.GuardrailRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tenant_id, feedback_type, feedback_text, context_type,
		       is_active, times_applied, created_at
		FROM guardrails
		WHERE tenant_id = $1 AND is_active = TRUE
		  AND context_type IN ('general', $2)
		ORDER BY created_at ASC
	`, tenantID, string(contextType))
	if err != nil {
		return nil, fmt.Errorf("list active guardrails: %w", err)
	}
	defer rows.Close()

	var out []models.GuardrailRow
	for rows.Next() {
		var g models.GuardrailRow
		if err := rows.Scan(
			&g.ID, &g.TenantID, &g.FeedbackType, &g.FeedbackText, &g.ContextType,
			&g.IsActive, &g.TimesApplied, &g.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan guardrail: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Create inserts a new guardrail row.
func (s *GuardrailStore) Create(ctx context.Context, g *models.GuardrailRow) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO guardrails (tenant_id, feedback_type, feedback_text, context_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_active, times_applied, created_at
	`, g.TenantID, g.FeedbackType, g.FeedbackText, g.ContextType).Scan(
		&g.ID, &g.IsActive, &g.TimesApplied, &g.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create guardrail: %w", err)
	}
	return nil
}

// Deactivate soft-disables a guardrail row. Rows are never deleted so the
// times_applied audit trail survives.
func (s *GuardrailStore) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE guardrails SET is_active = FALSE WHERE id = $1 AND tenant_id = $2
	`, id, tenantID)
	if err != nil {
		return fmt.Errorf("deactivate guardrail: %w", err)
	}
	return nil
}

// RecordApplied bumps the audit counter of every row a generation used.
func (s *GuardrailStore) RecordApplied(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	textIDs := make([]string, len(ids))
	for i, id := range ids {
		textIDs[i] = id.String()
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE guardrails SET times_applied = times_applied + 1
		WHERE id = ANY($1::uuid[])
	`, textIDs)
	if err != nil {
		return fmt.Errorf("record guardrails applied: %w", err)
	}
	return nil
}
