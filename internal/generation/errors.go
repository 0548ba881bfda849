// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

package generation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBrandNotFound is returned when the tenant has no brand profile yet.
// Generation cannot proceed without business facts to ground the prompt.
var ErrBrandNotFound = errors.New("generation: no brand profile for tenant")

// ErrNoContent is returned when every requested platform's invocation
// failed before producing any text.
var ErrNoContent = errors.New("generation: no platform produced content")

// RateLimitedError is an admission failure from the request rate limiter.
// RetryAfter is whole seconds until the earliest failed scope resets.
type RateLimitedError struct {
	Scope      string // "user" or "tenant"
	RetryAfter int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("generation: %s rate limit exceeded, retry in %ds", e.Scope, e.RetryAfter)
}

// BudgetExceededError is an admission failure from the monthly token budget
// gate. Distinct from rate limiting: waiting out a window will not help.
type BudgetExceededError struct {
	Estimated int64
	Used      int64
	Cap       int64
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("generation: monthly token budget exceeded (used %d + estimated %d > cap %d)",
		e.Used, e.Estimated, e.Cap)
}

// ContentRejectedError is returned when the moderation pre-flight flags the
// caller's brief before any generation happens.
type ContentRejectedError struct {
	Categories []string
}

func (e *ContentRejectedError) Error() string {
	if len(e.Categories) == 0 {
		return "generation: brief rejected by content moderation"
	}
	return "generation: brief rejected by content moderation: " + strings.Join(e.Categories, ", ")
}
