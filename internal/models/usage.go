// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// UsagePeriod accumulates a tenant's token and request consumption for one
// calendar month. Period is formatted "2006-01". Increments are best-effort:
// concurrent requests may race and the counter is advisory, not billing-grade.
type UsagePeriod struct {
	TenantID  uuid.UUID `json:"tenant_id"`
	Period    string    `json:"period"`
	Tokens    int64     `json:"tokens"`
	Requests  int64     `json:"requests"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PeriodKey returns the usage period key for the given time, e.g. "2026-08".
func PeriodKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}
