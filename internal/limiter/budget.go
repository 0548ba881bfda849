// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/peterjpitcher/cheersai2.0-sub004/internal/models"
)

// UsageReader reports a tenant's accumulated token usage for one period.
type UsageReader interface {
	MonthlyTokens(ctx context.Context, tenantID uuid.UUID, period string) (int64, error)
}

// BudgetDecision is the transient outcome of a budget check.
type BudgetDecision struct {
	Allowed   bool
	Estimated int64
	Used      int64
	Cap       int64
	Remaining int64
}

// BudgetGate compares a request's estimated token cost against the tenant's
// remaining monthly allowance. It runs once per request, before the platform
// loop, so a request can never run out of budget halfway through.
type BudgetGate struct {
	usage             UsageReader
	tokensPerPlatform int64
	monthlyCap        int64
	now               func() time.Time
}

// NewBudgetGate creates a gate with a fixed per-platform token estimate and
// monthly cap shared by all tenants.
func NewBudgetGate(usage UsageReader, tokensPerPlatform, monthlyCap int64) *BudgetGate {
	return &BudgetGate{
		usage:             usage,
		tokensPerPlatform: tokensPerPlatform,
		monthlyCap:        monthlyCap,
		now:               time.Now,
	}
}

// EstimateTokens returns the token cost estimate for a platform count.
func (g *BudgetGate) EstimateTokens(platformCount int) int64 {
	return g.tokensPerPlatform * int64(platformCount)
}

// Check reads the tenant's current-month usage and admits the request only
// if the estimate fits inside the cap.
func (g *BudgetGate) Check(ctx context.Context, tenantID uuid.UUID, platformCount int) (BudgetDecision, error) {
	used, err := g.usage.MonthlyTokens(ctx, tenantID, models.PeriodKey(g.now()))
	if err != nil {
		return BudgetDecision{}, fmt.Errorf("budget usage read: %w", err)
	}

	estimated := g.EstimateTokens(platformCount)
	remaining := g.monthlyCap - used
	if remaining < 0 {
		remaining = 0
	}

	return BudgetDecision{
		Allowed:   used+estimated <= g.monthlyCap,
		Estimated: estimated,
		Used:      used,
		Cap:       g.monthlyCap,
		Remaining: remaining,
	}, nil
}
