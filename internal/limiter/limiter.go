// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

package limiter

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Policy is a fixed admission policy: at most Requests inside each Window.
type Policy struct {
	Requests int
	Window   time.Duration
}

// Decision is the transient outcome of a rate-limit check. It is not
// persisted beyond the counters it consulted.
type Decision struct {
	Allowed bool

	// Scope names the scope that denied the request ("user" or "tenant");
	// empty when allowed.
	Scope string

	// Remaining is the lowest remaining allowance across the checked scopes.
	Remaining int64

	// ResetAt is the earliest reset among the scope(s) that failed, or the
	// earliest window reset overall when allowed.
	ResetAt time.Time
}

// RetryAfterSeconds converts the reset time into whole seconds from now,
// rounded up, never negative.
func (d Decision) RetryAfterSeconds(now time.Time) int {
	secs := int(math.Ceil(d.ResetAt.Sub(now).Seconds()))
	if secs < 0 {
		return 0
	}
	return secs
}

// RateLimiter checks per-user and per-tenant request policies. Both scopes
// are evaluated independently and both must pass.
type RateLimiter struct {
	store  CounterStore
	user   Policy
	tenant Policy
}

// NewRateLimiter creates a limiter over the given counter store.
func NewRateLimiter(store CounterStore, user, tenant Policy) *RateLimiter {
	return &RateLimiter{store: store, user: user, tenant: tenant}
}

// Check increments both scope counters and reports whether the request is
// admitted. A denial's ResetAt is the minimum reset across whichever
// scope(s) failed, so RetryAfterSeconds is the soonest useful retry.
func (rl *RateLimiter) Check(ctx context.Context, userID, tenantID string) (Decision, error) {
	scopes := []struct {
		name   string
		key    string
		policy Policy
	}{
		{"user", "user:" + userID, rl.user},
		{"tenant", "tenant:" + tenantID, rl.tenant},
	}

	decision := Decision{Allowed: true, Remaining: -1}

	for _, scope := range scopes {
		count, resetAt, err := rl.store.Increment(ctx, scope.key, scope.policy.Window)
		if err != nil {
			return Decision{}, fmt.Errorf("rate limit %s scope: %w", scope.name, err)
		}

		remaining := int64(scope.policy.Requests) - count
		if remaining < 0 {
			remaining = 0
		}

		if count > int64(scope.policy.Requests) {
			if decision.Allowed || resetAt.Before(decision.ResetAt) {
				decision.Scope = scope.name
				decision.ResetAt = resetAt
			}
			decision.Allowed = false
			decision.Remaining = 0
			continue
		}

		if decision.Allowed {
			if decision.Remaining < 0 || remaining < decision.Remaining {
				decision.Remaining = remaining
			}
			if decision.ResetAt.IsZero() || resetAt.Before(decision.ResetAt) {
				decision.ResetAt = resetAt
			}
		}
	}

	return decision, nil
}
