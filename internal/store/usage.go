// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/peterjpitcher/cheersai2.0-sub004/internal/models"
)

// UsageStore handles monthly usage counter database operations.
type UsageStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewUsageStore creates a new UsageStore with the given database connection.
func NewUsageStore(db *sql.DB) *UsageStore {
	return &UsageStore{db: db, now: time.Now}
}

// MonthlyTokens returns the tenant's accumulated token count for a period.
// A tenant with no row yet has used zero tokens.
func (s *UsageStore) MonthlyTokens(ctx context.Context, tenantID uuid.UUID, period string) (int64, error) {
	var tokens int64
	err := s.db.QueryRowContext(ctx, `
		SELECT tokens FROM usage_periods WHERE tenant_id = $1 AND period = $2
	`, tenantID, period).Scan(&tokens)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read monthly tokens: %w", err)
	}
	return tokens, nil
}

// AddUsage increments the tenant's counters for the current month, creating
// the period row on first use.
func (s *UsageStore) AddUsage(ctx context.Context, tenantID uuid.UUID, tokens, requests int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO usage_periods (tenant_id, period, tokens, requests)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tenant_id, period) DO UPDATE SET
			tokens = usage_periods.tokens + EXCLUDED.tokens,
			requests = usage_periods.requests + EXCLUDED.requests,
			updated_at = NOW()
	`, tenantID, models.PeriodKey(s.now()), tokens, requests)
	if err != nil {
		return fmt.Errorf("add usage: %w", err)
	}
	return nil
}

// PeriodForTenant returns the full counter row for a tenant and period.
// Returns nil if the tenant has no usage for that period.
func (s *UsageStore) PeriodForTenant(ctx context.Context, tenantID uuid.UUID, period string) (*models.UsagePeriod, error) {
	u := &models.UsagePeriod{}
	err := s.db.QueryRowContext(ctx, `
		SELECT tenant_id, period, tokens, requests, updated_at
		FROM usage_periods WHERE tenant_id = $1 AND period = $2
	`, tenantID, period).Scan(&u.TenantID, &u.Period, &u.Tokens, &u.Requests, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read usage period: %w", err)
	}
	return u, nil
}
