// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/peterjpitcher/cheersai2.0-sub004/internal/models"
)

func TestGuardrailStoreCreate(t *testing.T) {
	db := testDB(t)
	s := NewGuardrailStore(db)
	ctx := context.Background()

	tenant := createTestTenant(t, db, "store-test-guardrail", "store-test-guardrail-key")

	g := &models.GuardrailRow{
		TenantID:     tenant.ID,
		FeedbackType: models.FeedbackAvoid,
		FeedbackText: "cheap booze",
		ContextType:  models.GuardrailContextGeneral,
	}
	if err := s.Create(ctx, g); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if g.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if !g.IsActive {
		t.Error("expected new guardrail to be active")
	}
	if g.TimesApplied != 0 {
		t.Errorf("times applied: got %d, want 0", g.TimesApplied)
	}
}

func TestGuardrailStoreActiveGuardrailsScoping(t *testing.T) {
	db := testDB(t)
	s := NewGuardrailStore(db)
	ctx := context.Background()

	tenant := createTestTenant(t, db, "store-test-guardrail-scope", "store-test-guardrail-scope-key")

	create := func(text string, contextType models.GuardrailContext) *models.GuardrailRow {
		g := &models.GuardrailRow{
			TenantID:     tenant.ID,
			FeedbackType: models.FeedbackAvoid,
			FeedbackText: text,
			ContextType:  contextType,
		}
		if err := s.Create(ctx, g); err != nil {
			t.Fatalf("Create %q: %v", text, err)
		}
		return g
	}

	create("general rule", models.GuardrailContextGeneral)
	create("campaign rule", models.GuardrailContextCampaign)
	quickPost := create("quick post rule", models.GuardrailContextQuickPost)

	rows, err := s.ActiveGuardrails(ctx, tenant.ID, models.GuardrailContextCampaign)
	if err != nil {
		t.Fatalf("ActiveGuardrails: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want general + campaign", len(rows))
	}
	// Oldest first.
	if rows[0].FeedbackText != "general rule" || rows[1].FeedbackText != "campaign rule" {
		t.Errorf("rows = %q, %q", rows[0].FeedbackText, rows[1].FeedbackText)
	}

	// Deactivated rows disappear from the active set.
	if err := s.Deactivate(ctx, tenant.ID, quickPost.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	rows, err = s.ActiveGuardrails(ctx, tenant.ID, models.GuardrailContextQuickPost)
	if err != nil {
		t.Fatalf("ActiveGuardrails: %v", err)
	}
	if len(rows) != 1 || rows[0].FeedbackText != "general rule" {
		t.Errorf("after deactivate: got %d rows", len(rows))
	}
}

func TestGuardrailStoreDeactivateWrongTenant(t *testing.T) {
	db := testDB(t)
	s := NewGuardrailStore(db)
	ctx := context.Background()

	tenant := createTestTenant(t, db, "store-test-guardrail-tenant", "store-test-guardrail-tenant-key")

	g := &models.GuardrailRow{
		TenantID:     tenant.ID,
		FeedbackType: models.FeedbackTone,
		FeedbackText: "less salesy",
		ContextType:  models.GuardrailContextGeneral,
	}
	if err := s.Create(ctx, g); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Another tenant's ID must not deactivate this row.
	if err := s.Deactivate(ctx, uuid.New(), g.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	rows, err := s.ActiveGuardrails(ctx, tenant.ID, models.GuardrailContextGeneral)
	if err != nil {
		t.Fatalf("ActiveGuardrails: %v", err)
	}
	if len(rows) != 1 {
		t.Error("row deactivated by foreign tenant id")
	}
}

func TestGuardrailStoreRecordApplied(t *testing.T) {
	db := testDB(t)
	s := NewGuardrailStore(db)
	ctx := context.Background()

	tenant := createTestTenant(t, db, "store-test-guardrail-applied", "store-test-guardrail-applied-key")

	first := &models.GuardrailRow{
		TenantID:     tenant.ID,
		FeedbackType: models.FeedbackInclude,
		FeedbackText: "dog friendly",
		ContextType:  models.GuardrailContextGeneral,
	}
	second := &models.GuardrailRow{
		TenantID:     tenant.ID,
		FeedbackType: models.FeedbackAvoid,
		FeedbackText: "karaoke",
		ContextType:  models.GuardrailContextGeneral,
	}
	for _, g := range []*models.GuardrailRow{first, second} {
		if err := s.Create(ctx, g); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	if err := s.RecordApplied(ctx, []uuid.UUID{first.ID}); err != nil {
		t.Fatalf("RecordApplied: %v", err)
	}
	if err := s.RecordApplied(ctx, []uuid.UUID{first.ID, second.ID}); err != nil {
		t.Fatalf("RecordApplied: %v", err)
	}

	rows, err := s.ActiveGuardrails(ctx, tenant.ID, models.GuardrailContextGeneral)
	if err != nil {
		t.Fatalf("ActiveGuardrails: %v", err)
	}
	counts := make(map[string]int)
	for _, row := range rows {
		counts[row.FeedbackText] = row.TimesApplied
	}
	if counts["dog friendly"] != 2 {
		t.Errorf("first row times applied: got %d, want 2", counts["dog friendly"])
	}
	if counts["karaoke"] != 1 {
		t.Errorf("second row times applied: got %d, want 1", counts["karaoke"])
	}

	// Empty slice is a no-op, not an error.
	if err := s.RecordApplied(ctx, nil); err != nil {
		t.Errorf("RecordApplied(nil): %v", err)
	}
}
